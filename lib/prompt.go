package lib

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/c-bata/go-prompt"
	"github.com/friendsofgo/errors"
	"github.com/mattn/go-isatty"
)

func PromptOptionCtrlCExit() prompt.Option {
	return prompt.OptionAddKeyBind(prompt.KeyBind{
		Key: prompt.ControlC,
		Fn: func(buffer *prompt.Buffer) {
			os.Exit(1)
		},
	})
}

func PromptNoCompletions() prompt.Completer {
	return func(document prompt.Document) []prompt.Suggest { return nil }
}

// PromptEnter blocks until the user presses enter. Ctrl+C exits the process.
// go-prompt needs a terminal, so piped input is read line by line instead.
func PromptEnter(message string) {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		prompt.Input(message, PromptNoCompletions(), PromptOptionCtrlCExit())
		return
	}

	if err := WaitForLine(os.Stdin, os.Stdout, message); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}

// WaitForLine writes message to out and reads up to the next newline from in.
// Closed input counts as a confirmation.
func WaitForLine(in io.Reader, out io.Writer, message string) error {
	fmt.Fprint(out, message)
	if _, err := bufio.NewReader(in).ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "failed to read from stdin")
	}
	fmt.Fprintln(out)
	return nil
}
