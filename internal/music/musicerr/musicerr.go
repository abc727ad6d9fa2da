// Package musicerr defines the error taxonomy of the playback core.
//
// Every sentinel is marked with one category so callers can branch on
// errors.Is(err, musicerr.UserInput) etc. without knowing the concrete error.
// User-facing text travels as a hint (errors.WithHint) and is read back with
// Hint.
package musicerr

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Categories.
var (
	UserInput          = errors.New("user input")
	BackendUnavailable = errors.New("backend unavailable")
	ExternalLookup     = errors.New("external lookup failure")
	TransientUI        = errors.New("transient ui failure")
)

var (
	ErrNotInVoice = define(UserInput, "actor is not in a voice channel",
		"Please **join a voice channel** before using music controls.")
	ErrWrongChannel = define(UserInput, "actor is in another voice channel",
		"You must be in the **same voice channel** as the bot to use these controls.")
	ErrNoSession = define(UserInput, "no active playback session",
		"There is no active music session in this server.")
	ErrNothingPlaying = define(UserInput, "nothing is playing",
		"There is currently **no song playing** in this server.")
	ErrAlreadyPaused = define(UserInput, "playback already paused",
		"Playback is already paused.")
	ErrNotPaused = define(UserInput, "playback is not paused",
		"Playback is not paused.")
	ErrQueueEmpty = define(UserInput, "queue is empty",
		"There are **no tracks** in the queue.")
	ErrNoPrevious = define(UserInput, "no previous track",
		"There is no previous track to go back to.")
	ErrNotSeekable = define(UserInput, "track is not seekable",
		"The current track **cannot be seeked**.")
	ErrNoResults = define(ExternalLookup, "no playable tracks found",
		"No playable tracks were found for your query.\n\nTry another song name or URL.")
	ErrLyricsNotFound = define(ExternalLookup, "lyrics not found",
		"No lyrics were found for the current track.")
	ErrBackendOffline = define(BackendUnavailable, "audio backend offline",
		"The music backend (**Lavalink**) is currently unavailable.\n\nPlease try again later.")
	ErrPanelGone = define(TransientUI, "panel message no longer exists", "")
)

func define(category error, msg, hint string) error {
	err := errors.New(msg)
	if hint != "" {
		err = errors.WithHint(err, hint)
	}
	return errors.Mark(err, category)
}

// CooldownError rejects an action that was used again too soon.
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s on cooldown for %.1fs", e.Action, Seconds(e.Remaining))
}

// Is makes every CooldownError match the UserInput category.
func (e *CooldownError) Is(target error) bool {
	return target == UserInput
}

// Seconds rounds d to one decimal place of seconds.
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*10) / 10
}

// Hint returns the user-facing text attached to err, or a generic message.
func Hint(err error) string {
	var cd *CooldownError
	if errors.As(err, &cd) {
		return fmt.Sprintf("Please wait **%.1fs** before using this again.", Seconds(cd.Remaining))
	}
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		return strings.Join(hints, "\n")
	}
	return "Something went wrong. Please try again."
}

// IsUserFacing reports whether err belongs to a category that should be shown
// to the actor as a plain rejection rather than logged as a failure.
func IsUserFacing(err error) bool {
	return errors.Is(err, UserInput) ||
		errors.Is(err, BackendUnavailable) ||
		errors.Is(err, ExternalLookup)
}

// Unavailable wraps a failed backend call so it reads as ErrBackendOffline to
// the actor while keeping the cause for the logs.
func Unavailable(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.WithHint(
		errors.Mark(errors.Wrap(err, op), BackendUnavailable),
		"The music backend (**Lavalink**) did not respond.\n\nPlease try again later.",
	)
}
