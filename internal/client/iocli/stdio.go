package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio читает из in и пишет в out. Пароль читается без эха, если in - терминал.
type Stdio struct {
	in     *bufio.Reader
	out    io.Writer
	stdinF *os.File
}

// NewStdio работает с os.Stdin и os.Stdout
func NewStdio() IO {
	return &Stdio{in: bufio.NewReader(os.Stdin), out: os.Stdout, stdinF: os.Stdin}
}

// New создает IO поверх произвольных потоков
func New(in io.Reader, out io.Writer) IO {
	s := &Stdio{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		s.stdinF = f
	}
	return s
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if s.stdinF != nil && term.IsTerminal(int(s.stdinF.Fd())) {
		pwBytes, err := term.ReadPassword(int(s.stdinF.Fd()))
		s.Println("")
		if err != nil {
			return "", err
		}
		return string(pwBytes), nil
	}
	// ввод из pipe или файла
	return s.readLine()
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
