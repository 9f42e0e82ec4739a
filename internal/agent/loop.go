package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Loop runs the interactive console session: greet, read questions, reply,
// until the user types "sair" or input ends. Reply errors are shown to the
// user and the loop continues; only I/O errors end it.
func (a *Agent) Loop(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, Welcome)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, ExitCommand) {
			fmt.Fprintln(out, Farewell)
			return nil
		}

		reply, err := a.Send(ctx, input)
		if err != nil {
			a.logger.Error("reply failed", "error", err)
			fmt.Fprintf(out, "Desculpe, algo deu errado: %v\n", err)
			continue
		}
		fmt.Fprintln(out, reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintln(out, Farewell)
	return nil
}
