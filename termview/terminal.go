// This file is part of softvga.
//
// softvga is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// softvga is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with softvga.  If not, see <https://www.gnu.org/licenses/>.

package termview

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/pkg/term"
	xterm "golang.org/x/term"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/logger"
)

// NotATerminal is returned by OpenTerminal() if the output is not a
// terminal.
const NotATerminal = "termview: %s is not a terminal"

// Terminal is the controlling terminal in cbreak mode.
type Terminal struct {
	tty    *term.Term
	output *os.File
}

// OpenTerminal puts the controlling terminal into cbreak mode. The output
// file is the file the preview will be written to.
func OpenTerminal(output *os.File) (*Terminal, error) {
	if !xterm.IsTerminal(int(output.Fd())) {
		return nil, curated.Errorf(NotATerminal, output.Name())
	}

	tty, err := term.Open("/dev/tty", term.CBreakMode)
	if err != nil {
		return nil, curated.Errorf("termview: %v", err)
	}

	// key reads must not block forever so that the reading goroutine can
	// notice the end of the context
	err = tty.SetReadTimeout(100 * time.Millisecond)
	if err != nil {
		_ = tty.Restore()
		_ = tty.Close()
		return nil, curated.Errorf("termview: %v", err)
	}

	trm := &Terminal{
		tty:    tty,
		output: output,
	}

	// clear screen and hide cursor
	_, _ = trm.output.WriteString("\x1b[2J\x1b[?25l")

	logger.Log(logger.Allow, "termview", "terminal in cbreak mode")

	return trm, nil
}

// Size returns the number of character columns and rows of the terminal.
func (trm *Terminal) Size() (int, int, error) {
	cols, rows, err := xterm.GetSize(int(trm.output.Fd()))
	if err != nil {
		return 0, 0, curated.Errorf("termview: %v", err)
	}
	return cols, rows, nil
}

// Keys returns a channel on which key presses are sent. The channel is closed
// when the context is done or the terminal can no longer be read.
func (trm *Terminal) Keys(ctx context.Context) <-chan rune {
	keys := make(chan rune, 16)
	go func() {
		defer close(keys)
		b := make([]byte, 1)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			n, err := trm.tty.Read(b)
			if err != nil && !errors.Is(err, io.EOF) {
				return
			}
			if n == 0 {
				continue
			}

			select {
			case keys <- rune(b[0]):
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys
}

// Restore the terminal to the mode it was in before OpenTerminal().
func (trm *Terminal) Restore() error {
	// reset attributes and show cursor
	_, _ = trm.output.WriteString("\x1b[0m\x1b[?25h\r\n")

	err := trm.tty.Restore()
	if cerr := trm.tty.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return curated.Errorf("termview: %v", err)
	}

	logger.Log(logger.Allow, "termview", "terminal restored")
	return nil
}
