package lights

// Line commands understood by the serial strip firmware:
//
//	range <from> <to> <r> <g> <b>
//	playhead <count> <r> <g> <b>
//	clear
const (
	cmdRange    = "range"
	cmdPlayhead = "playhead"
	cmdClear    = "clear"
)
