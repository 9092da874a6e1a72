// internal/round/round.go
//
// Core types for a single spectrum-guessing round.
// Defines:
//   - Round: the server-side record binding a hidden target to an opaque id.
//   - Anchors: the two opposite pole labels plus the spectrum label.
//   - Grade/Result: the distance-based scoring of a guess.
//
// Notes:
//   - The target lives only in the Round record and in the reveal response;
//     it is never part of the round-creation payload.
//   - Anchor/clue bounds match the generator contract (rune counts, trimmed).

package round

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TargetMax is the upper bound of the spectrum scale (inclusive).
const TargetMax = 100

// winThreshold: a guess wins when 100 - distance is strictly above this.
const winThreshold = 80

// Round is the server-side state of one created-but-unrevealed round.
// The id is the only field that ever reaches the client before reveal.
type Round struct {
	ID        string    // unguessable identifier, store key
	Target    int       // hidden position in [0, TargetMax]
	CreatedAt time.Time // used only for expiry
}

// New constructs a Round with a fresh id.
func New(target int, now time.Time) Round {
	return Round{ID: NewID(), Target: target, CreatedAt: now}
}

// NewID creates a 22-char URL-safe, crypto-random identifier (no padding).
// 128 bits of entropy; collisions are not a practical concern.
func NewID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
}

// Anchors holds the generated poles of the spectrum.
// Left maps to position 0, Right to position 100.
type Anchors struct {
	Left  string `json:"leftAnchor"`
	Right string `json:"rightAnchor"`
	Label string `json:"spectrumLabel"`
}

// Anchor/label/clue length bounds, in runes after trimming.
const (
	anchorMin = 2
	anchorMax = 40
	labelMin  = 1
	labelMax  = 20
	clueMin   = 5
	clueMax   = 140
)

// Normalize trims the anchor fields in place and reports every bound
// violation. An empty slice means the anchors are structurally valid.
func (a *Anchors) Normalize() []string {
	var problems []string
	a.Left = strings.TrimSpace(a.Left)
	a.Right = strings.TrimSpace(a.Right)
	a.Label = strings.TrimSpace(a.Label)
	if n := utf8.RuneCountInString(a.Left); n < anchorMin || n > anchorMax {
		problems = append(problems, fmt.Sprintf("leftAnchor must be %d-%d chars", anchorMin, anchorMax))
	}
	if n := utf8.RuneCountInString(a.Right); n < anchorMin || n > anchorMax {
		problems = append(problems, fmt.Sprintf("rightAnchor must be %d-%d chars", anchorMin, anchorMax))
	}
	if n := utf8.RuneCountInString(a.Label); n < labelMin || n > labelMax {
		problems = append(problems, fmt.Sprintf("spectrumLabel must be %d-%d chars", labelMin, labelMax))
	}
	return problems
}

// NormalizeClue trims the clue and reports bound violations.
func NormalizeClue(clue string) (string, []string) {
	clue = strings.TrimSpace(clue)
	if n := utf8.RuneCountInString(clue); n < clueMin || n > clueMax {
		return clue, []string{fmt.Sprintf("clue must be %d-%d chars", clueMin, clueMax)}
	}
	return clue, nil
}

// Result is the outcome of grading a guess against a target.
type Result struct {
	Target   int
	Distance int
	Won      bool
}

// Grade scores a guess. Distance 19 or less wins; distance 20 loses
// (strict greater-than on 100 - distance).
func Grade(target, guess int) Result {
	d := guess - target
	if d < 0 {
		d = -d
	}
	return Result{Target: target, Distance: d, Won: TargetMax-d > winThreshold}
}

// Message renders the player-facing score string.
func (r Result) Message() string {
	if r.Won {
		return "You Won!"
	}
	return "AWW... You Lost!"
}
