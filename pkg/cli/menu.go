// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Actions are the operations offered by the interactive menu
type Actions interface {
	Check(ctx context.Context, domain string) error
	Update(ctx context.Context) error
}

// RunMenu prompts for actions until the operator exits or input ends
func RunMenu(ctx context.Context, in io.Reader, out io.Writer, actions Actions) error {
	scanner := bufio.NewScanner(in)
	prompt := func(text string) (string, bool) {
		fmt.Fprint(out, text)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(out, "\nSelect action:")
		fmt.Fprintln(out, "1 - Check domain")
		fmt.Fprintln(out, "2 - Update domain database")
		fmt.Fprintln(out, "3 - Exit")

		choice, ok := prompt("Enter action number: ")
		if !ok {
			return scanner.Err()
		}

		switch choice {
		case "1":
			domain, ok := prompt("Enter domain (without www, example: example.com): ")
			if !ok {
				return scanner.Err()
			}
			if err := actions.Check(ctx, domain); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		case "2":
			if err := actions.Update(ctx); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		case "3":
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Try again.")
		}
	}
}
