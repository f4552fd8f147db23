package report

import (
	"fmt"
)

type Code uint16

const (
	// Unknown fallback
	UnknownCode Code = 0

	// Rule-set lint
	RulInfo            Code = 1000
	RulNotNFC          Code = 1001
	RulDuplicateMarker Code = 1002
	RulShortAnchor     Code = 1003

	// Patch outcomes
	PatInfo           Code = 2000
	PatNoMatch        Code = 2001
	PatAlreadyPresent Code = 2002
	PatConflict       Code = 2003
	PatRuleFailed     Code = 2004

	// I/O
	IOLoadFileError   Code = 4001
	IOWriteFileError  Code = 4002
	IOSnapshotError   Code = 4003
	IOSnapshotMissing Code = 4004

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown problem",
	RulInfo:            "Rule set information",
	RulNotNFC:          "Rule text is not NFC-normalized",
	RulDuplicateMarker: "Marker shared by multiple rules",
	RulShortAnchor:     "Anchor substring is very short",
	PatInfo:            "Patch information",
	PatNoMatch:         "Anchor matched nothing",
	PatAlreadyPresent:  "Marker already present",
	PatConflict:        "Insertions conflict",
	PatRuleFailed:      "Rule could not be applied",
	IOLoadFileError:    "I/O load file error",
	IOWriteFileError:   "I/O write file error",
	IOSnapshotError:    "Snapshot store error",
	IOSnapshotMissing:  "No snapshot recorded",
	ObsInfo:            "Observability information",
	ObsTimings:         "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("RUL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PAT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
