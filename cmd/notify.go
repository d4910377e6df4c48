package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"rideNext/internal/mybookings"
)

// cliNotifier prints alerts as single lines.
type cliNotifier struct {
	out io.Writer
}

func (n cliNotifier) Error(_, message string)   { fmt.Fprintf(n.out, "Error: %s\n", message) }
func (n cliNotifier) Success(_, message string) { fmt.Fprintf(n.out, "Success: %s\n", message) }

// promptConfirmer asks on the terminal. assumeYes skips the question.
type promptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func (c promptConfirmer) Confirm(ctx context.Context, title, message string) (mybookings.Decision, error) {
	if c.assumeYes {
		return mybookings.DecisionConfirm, nil
	}
	if err := ctx.Err(); err != nil {
		return mybookings.DecisionCancel, err
	}
	fmt.Fprintf(c.out, "%s: %s [y/N] ", title, message)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return mybookings.DecisionCancel, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return mybookings.DecisionConfirm, nil
	default:
		return mybookings.DecisionCancel, nil
	}
}
