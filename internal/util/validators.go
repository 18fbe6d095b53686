package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidStreamID = errors.New("invalid stream id")

// ValidateStreamID accepts a full id ("ms-seq"), a bare millisecond part, an
// auto-sequence id ("ms-*") or, when allowSpecial is set, one of the special
// ids * $ > - +.
func ValidateStreamID(id string, allowSpecial bool) error {
	switch id {
	case "*", "$", ">", "-", "+":
		if allowSpecial {
			return nil
		}
		return fmt.Errorf("%w: %q not allowed here", ErrInvalidStreamID, id)
	}

	ms, seq, hasSeq := strings.Cut(id, "-")
	if _, err := strconv.ParseUint(ms, 10, 64); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStreamID, id)
	}
	if !hasSeq || (seq == "*" && allowSpecial) {
		return nil
	}
	if _, err := strconv.ParseUint(seq, 10, 64); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStreamID, id)
	}
	return nil
}

func ValidateStreamIDs(ids []string, allowSpecial bool) error {
	for _, id := range ids {
		if err := ValidateStreamID(id, allowSpecial); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFieldValues checks that args form field/value pairs.
func ValidateFieldValues(args []string) error {
	if len(args) == 0 || len(args)%2 != 0 {
		return fmt.Errorf("ERR wrong number of arguments: need field/value pairs, got %d", len(args))
	}
	return nil
}
