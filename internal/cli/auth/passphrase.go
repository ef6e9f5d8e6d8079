package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"ConnKeeper/internal/connfile"
)

// ErrNoTerminal — stdin не терминал, спросить пароль нельзя.
var ErrNoTerminal = errors.New("stdin is not a terminal")

// tty — операции с терминалом; в тестах подменяются.
type tty struct {
	isTerminal func(fd int) bool
	read       func(fd int) ([]byte, error)
	getState   func(fd int) (*term.State, error)
	restore    func(fd int, st *term.State) error
}

// TerminalRequestor спрашивает пароль документа в терминале без эха.
// Пустой ввод считается отказом.
func TerminalRequestor(prompt io.Writer) connfile.PassphraseRequestor {
	return terminalRequestor(int(os.Stdin.Fd()), prompt, tty{
		isTerminal: term.IsTerminal,
		read:       term.ReadPassword,
		getState:   term.GetState,
		restore:    term.Restore,
	})
}

func terminalRequestor(fd int, prompt io.Writer, t tty) connfile.PassphraseRequestor {
	return func(ctx context.Context) (string, bool, error) {
		if !t.isTerminal(fd) {
			return "", false, ErrNoTerminal
		}
		// состояние до отключения эха; ReadPassword сам вернёт его только
		// после чтения, а при отмене чтение не заканчивается
		saved, err := t.getState(fd)
		if err != nil {
			return "", false, err
		}
		_, _ = fmt.Fprint(prompt, "Connections file passphrase: ")

		type result struct {
			b   []byte
			err error
		}
		ch := make(chan result, 1)
		// При отмене горутина остаётся заблокированной в чтении stdin до
		// выхода процесса: прервать read(2) на терминале переносимо нельзя.
		// ckcli спрашивает пароль один раз за запуск, так что утечка одна.
		go func() {
			b, err := t.read(fd)
			ch <- result{b, err}
		}()

		select {
		case <-ctx.Done():
			_ = t.restore(fd, saved)
			_, _ = fmt.Fprintln(prompt)
			return "", false, ctx.Err()
		case r := <-ch:
			_, _ = fmt.Fprintln(prompt)
			if r.err != nil {
				return "", false, r.err
			}
			p := strings.TrimRight(string(r.b), "\r\n")
			if p == "" {
				return "", false, nil
			}
			return p, true, nil
		}
	}
}
