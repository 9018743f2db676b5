package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconShield = "\U000F0498" // 󰒘
	IconGlobe  = ""     //
	IconClock  = ""     //
)

// Directory icons
var (
	IconFolderOpen   = "" //
	IconFolderClosed = "" //
)

// File type icons
var (
	IconFilePage   = " " //
	IconFileBackup = " " //
)
