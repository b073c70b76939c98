// Package sentinel defines the reserved code points the compiler embeds in
// emitted keys, contexts, and replacements. These never occur in input
// text; the downstream runtime treats them as opcodes.
package sentinel

// Reserved code points, per the external interface contract.
const (
	WordBoundary   rune = 0x01
	PreContextOpen rune = 0x02
	PostContextOpen rune = 0x03
	EmptyTransition rune = 0x04
	RepeatZero      rune = 0x05
	RepeatOne       rune = 0x06
	BeginSet        rune = 0x0E
	EndSet          rune = 0x0F
	GroupIndicator  rune = 0x10
)
