package monitor

import (
	"errors"

	"github.com/ezrec/mos6502/translate"
)

var f = translate.From

var (
	ErrArgumentMissing = errors.New(f("argument missing"))
	ErrArgumentExtra   = errors.New(f("too many arguments"))
	ErrArgumentRange   = errors.New(f("argument out of range"))
)

// ErrCommandInvalid is an unknown monitor command.
type ErrCommandInvalid string

func (err ErrCommandInvalid) Error() string {
	return f("'%v' unknown command, try 'h'", string(err))
}
