package audit

import (
	"context"
	"testing"

	"github.com/colonyops/gatekeep/internal/core/inject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementCheck_Processed(t *testing.T) {
	doc := loadFixture(t, processedPage("<title>t</title><script>other();</script>"))

	result := NewPlacementCheck().Run(context.Background(), doc)
	require.Len(t, result.Items, 2)

	assert.Equal(t, StatusPass, itemByLabel(t, result, "gate first").Status)
	assert.Equal(t, StatusPass, itemByLabel(t, result, "scheduler last").Status)
}

func TestPlacementCheck_GateNotFirst(t *testing.T) {
	page := "<html><head>" +
		"<script>analytics();</script>" +
		"<script>" + inject.Gate + "</script>" +
		"<script>" + inject.Scheduler + "</script>" +
		"</head><body></body></html>"
	doc := loadFixture(t, page)

	result := NewPlacementCheck().Run(context.Background(), doc)

	assert.Equal(t, StatusWarn, itemByLabel(t, result, "gate first").Status)
	assert.Equal(t, StatusPass, itemByLabel(t, result, "scheduler last").Status)
}

func TestPlacementCheck_SchedulerNotLast(t *testing.T) {
	page := "<html><head>" +
		"<script>" + inject.Gate + "</script>" +
		"<script>" + inject.Scheduler + "</script>" +
		"<script>late();</script>" +
		"</head><body></body></html>"
	doc := loadFixture(t, page)

	result := NewPlacementCheck().Run(context.Background(), doc)

	assert.Equal(t, StatusPass, itemByLabel(t, result, "gate first").Status)
	assert.Equal(t, StatusWarn, itemByLabel(t, result, "scheduler last").Status)
}

func TestPlacementCheck_ExternalScriptsIgnored(t *testing.T) {
	// A src script before the gate does not displace it; only inline
	// scripts compete for placement.
	page := "<html><head>" +
		`<script src="/lib.js"></script>` +
		"<script>" + inject.Gate + "</script>" +
		"<script>" + inject.Scheduler + "</script>" +
		"</head><body></body></html>"
	doc := loadFixture(t, page)

	result := NewPlacementCheck().Run(context.Background(), doc)

	assert.Equal(t, StatusPass, itemByLabel(t, result, "gate first").Status)
}

func TestPlacementCheck_NoScripts(t *testing.T) {
	doc := loadFixture(t, "<html><head><title>t</title></head><body></body></html>")

	result := NewPlacementCheck().Run(context.Background(), doc)
	assert.Empty(t, result.Items, "presence is a different check's concern")
}
