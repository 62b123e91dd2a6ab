package description

import "strings"

// geoblockingNotices are the Germany-only legal notices broadcasters put into
// descriptions. Order matters: the combined German/English notice has to be
// removed before its German and English halves are tried on their own.
var geoblockingNotices = []string{
	"+++ Aus rechtlichen Gründen ist der Film nur innerhalb von Deutschland abrufbar. +++",
	"+++ Aus rechtlichen Gründen ist diese Sendung nur innerhalb von Deutschland abrufbar. +++",
	"+++ Aus rechtlichen Gründen ist dieses Video nur innerhalb von Deutschland abrufbar. +++",
	"+++ Aus rechtlichen Gründen ist dieses Video nur innerhalb von Deutschland verfügbar. +++",
	"+++ Aus rechtlichen Gründen kann das Video nur innerhalb von Deutschland abgerufen werden. +++ Due to legal reasons the video is only available in Germany.+++",
	"+++ Aus rechtlichen Gründen kann das Video nur innerhalb von Deutschland abgerufen werden. +++",
	"+++ Due to legal reasons the video is only available in Germany.+++",
	"+++ Aus rechtlichen Gründen kann das Video nur in Deutschland abgerufen werden. +++",
}

// GeoblockingNotices returns the notices removed from every description, in
// the order they are applied.
func GeoblockingNotices() []string {
	notices := make([]string, len(geoblockingNotices))
	copy(notices, geoblockingNotices)
	return notices
}

// removeGeoblockingNotices deletes every occurrence of every notice and
// reports whether anything was removed. Passes repeat until none is left, as
// joining the text around a removed notice can form a new one.
func removeGeoblockingNotices(text string) (string, bool) {
	removed := false
	for {
		pass := false
		for _, notice := range geoblockingNotices {
			if strings.Contains(text, notice) {
				text = strings.ReplaceAll(text, notice, "")
				pass = true
			}
		}
		if !pass {
			return text, removed
		}
		removed = true
	}
}
