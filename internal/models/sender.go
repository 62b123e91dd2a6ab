package models

import (
	"strings"

	"github.com/glefebvre/mediathek/internal/errors"
)

// Sender is the broadcaster a film was harvested from
type Sender string

const (
	SenderARD        Sender = "ARD"
	SenderZDF        Sender = "ZDF"
	SenderArteDE     Sender = "ARTE.DE"
	SenderArteFR     Sender = "ARTE.FR"
	Sender3Sat       Sender = "3Sat"
	SenderBR         Sender = "BR"
	SenderDW         Sender = "DW"
	SenderFunk       Sender = "FUNK.NET"
	SenderHR         Sender = "HR"
	SenderKiKA       Sender = "KiKA"
	SenderMDR        Sender = "MDR"
	SenderNDR        Sender = "NDR"
	SenderORF        Sender = "ORF"
	SenderPhoenix    Sender = "PHOENIX"
	SenderRBB        Sender = "RBB"
	SenderSR         Sender = "SR"
	SenderSRF        Sender = "SRF"
	SenderSRFPodcast Sender = "SRF.Podcast"
	SenderSWR        Sender = "SWR"
	SenderWDR        Sender = "WDR"
)

var senders = []Sender{
	SenderARD, SenderZDF, SenderArteDE, SenderArteFR, Sender3Sat, SenderBR, SenderDW,
	SenderFunk, SenderHR, SenderKiKA, SenderMDR, SenderNDR, SenderORF, SenderPhoenix,
	SenderRBB, SenderSR, SenderSRF, SenderSRFPodcast, SenderSWR, SenderWDR,
}

// Senders returns all known broadcasters
func Senders() []Sender {
	return append([]Sender(nil), senders...)
}

// Valid reports whether s is one of the known broadcasters
func (s Sender) Valid() bool {
	for _, candidate := range senders {
		if candidate == s {
			return true
		}
	}
	return false
}

func (s Sender) String() string {
	return string(s)
}

// ParseSender maps a display name to a broadcaster, ignoring case
func ParseSender(name string) (Sender, error) {
	trimmed := strings.TrimSpace(name)
	for _, candidate := range senders {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", errors.InvalidInputError("sender", name)
}
