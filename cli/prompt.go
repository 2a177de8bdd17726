package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrCancelled is returned when the operator exhausts the attempts for a field.
var ErrCancelled = errors.New("operation cancelled after repeated invalid input")

// Prompter reads operator input line by line. Each field accepts at most
// maxAttempts invalid answers before the whole operation is cancelled.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int
}

// NewPrompter creates a Prompter. maxAttempts below 1 means 1.
func NewPrompter(in io.Reader, out io.Writer, maxAttempts int) *Prompter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Prompter{in: br, out: out, maxAttempts: maxAttempts}
}

// Line prints label and returns the next input line without surrounding spaces.
// io.EOF is returned once input is exhausted.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ask repeats label until accept returns nil or the attempts run out.
func (p *Prompter) ask(label string, accept func(string) error) error {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		line, err := p.Line(label)
		if err != nil {
			return err
		}
		if err := accept(line); err != nil {
			fmt.Fprintf(p.out, "Erro: %v\n", err)
			continue
		}
		return nil
	}
	return ErrCancelled
}

// String asks for free text checked by check.
func (p *Prompter) String(label string, check func(string) error) (string, error) {
	var out string
	err := p.ask(label, func(s string) error {
		if err := check(s); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

// ID asks for a product id. Input is upper-cased before check runs.
func (p *Prompter) ID(label string, check func(string) error) (string, error) {
	var out string
	err := p.ask(label, func(s string) error {
		s = strings.ToUpper(s)
		if err := check(s); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

// Int asks for an integer checked by check.
func (p *Prompter) Int(label string, check func(int) error) (int, error) {
	var out int
	err := p.ask(label, func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("digite um número inteiro válido")
		}
		if err := check(n); err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// Decimal asks for a decimal number; a comma is accepted as decimal separator.
func (p *Prompter) Decimal(label string, check func(decimal.Decimal) error) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := p.ask(label, func(s string) error {
		d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
		if err != nil {
			return errors.New("digite um número válido")
		}
		if err := check(d); err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}

// Choice asks for an option number in [lo, hi].
func (p *Prompter) Choice(label string, lo, hi int) (int, error) {
	return p.Int(label, func(n int) error {
		if n < lo || n > hi {
			return fmt.Errorf("escolha uma opção de %d a %d", lo, hi)
		}
		return nil
	})
}

// Confirm asks a S/N question.
func (p *Prompter) Confirm(label string) (bool, error) {
	var yes bool
	err := p.ask(label, func(s string) error {
		switch strings.ToUpper(s) {
		case "S":
			yes = true
		case "N":
			yes = false
		default:
			return errors.New("digite S ou N")
		}
		return nil
	})
	return yes, err
}
