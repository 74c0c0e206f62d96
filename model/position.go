package model

import (
	"strings"
)

type Position string

const (
	POS_UNKNOWN Position = "UNK"
	POS_QB      Position = "QB"
	POS_RB      Position = "RB"
	POS_WR      Position = "WR"
	POS_TE      Position = "TE"
	POS_K       Position = "K"
	POS_DEF     Position = "DEF"
)

func ParsePosition(pos string) Position {
	pos = strings.ToLower(pos)
	switch pos {
	case "qb":
		return POS_QB
	case "rb":
		return POS_RB
	case "wr":
		return POS_WR
	case "te":
		return POS_TE
	case "k":
		return POS_K
	case "def", "dst", "d/st":
		return POS_DEF
	default:
		return POS_UNKNOWN
	}
}

const (
	SlotBench = "BN"
	SlotIR    = "IR"
	SlotFlex  = "FLEX"
	SlotSuper = "SUPER_FLEX"
)

// espnLineupSlots maps ESPN's numeric lineupSlotId values to slot names.
// Sleeper reports slots as strings already.
var espnLineupSlots = map[int]string{
	0:  "QB",
	2:  "RB",
	4:  "WR",
	6:  "TE",
	7:  SlotSuper, // OP
	16: "DEF",
	17: "K",
	20: SlotBench,
	21: SlotIR,
	23: SlotFlex,
}

// LineupSlotForESPN translates an ESPN lineupSlotId. Unknown slot ids are
// treated as bench so a schema addition never promotes a player to starter.
func LineupSlotForESPN(slotID int) string {
	if s, ok := espnLineupSlots[slotID]; ok {
		return s
	}
	return SlotBench
}

func IsStartingSlot(slot string) bool {
	return slot != SlotBench && slot != SlotIR && slot != ""
}
