package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/adamspd/quizdesk/client"
	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/session"
	"github.com/adamspd/quizdesk/utils"
)

func main() {
	serverURL := flag.String("server", utils.GetEnvOrDefault("QUIZ_SERVER", "http://localhost:4001"), "quiz server base URL")
	quizID := flag.Int("quiz", 0, "quiz to take (0 lists the available quizzes)")
	duration := flag.Int("duration", 180, "time limit in seconds")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(*serverURL, nil)

	var err error
	if *quizID <= 0 {
		err = listQuizzes(ctx, c, os.Stdout)
	} else {
		err = takeQuiz(ctx, c, *quizID, *duration, os.Stdin, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "quizcli: %v\n", err)
		os.Exit(1)
	}
}

func listQuizzes(ctx context.Context, c *client.Client, out io.Writer) error {
	quizzes, err := c.Quizzes(ctx)
	if err != nil {
		return err
	}
	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No quizzes available.")
		return nil
	}
	for _, q := range quizzes {
		fmt.Fprintf(out, "%3d  %s (%d questions)\n", q.ID, q.Title, q.QuestionCount)
	}
	fmt.Fprintln(out, "\nRun with -quiz <id> to start.")
	return nil
}

func takeQuiz(ctx context.Context, c *client.Client, quizID, duration int, in io.Reader, out io.Writer) error {
	questions, err := c.Questions(ctx, quizID)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintf(out, "Quiz %d has no questions.\n", quizID)
		return nil
	}

	out = &lockedWriter{w: out}
	s := session.New(quizID, questions, c, duration, time.Second)
	s.OnTick(func(remaining int) {
		switch remaining {
		case 60, 30, 10:
			fmt.Fprintf(out, "\n[%s left]\n", session.Clock(remaining))
		case 0:
			fmt.Fprintln(out, "\nTime is up! Submitting your answers...")
		}
	})

	lines := readLines(in)

	fmt.Fprintf(out, "Quiz %d: %d questions, %s on the clock. Answer with a letter, Enter to skip, q to quit.\n",
		quizID, len(questions), session.Clock(duration))
	if err := s.Start(ctx); err != nil {
		return err
	}

	if ask(ctx, s, lines, out) {
		if _, err := s.Submit(ctx); err != nil && err != session.ErrFinished {
			return err
		}
	}

	select {
	case <-s.Done():
	case <-ctx.Done():
		s.Cancel()
	}

	if s.Outcome() == session.Cancelled {
		fmt.Fprintln(out, "Quiz abandoned, nothing submitted.")
		return nil
	}
	if err := s.Err(); err != nil {
		return err
	}
	printResult(out, questions, s.Result())
	return nil
}

// ask walks through the questions and reports whether the user reached the
// end and wants to submit.
func ask(ctx context.Context, s *session.Session, lines <-chan string, out io.Writer) bool {
	for i, q := range s.Questions() {
		for {
			fmt.Fprintf(out, "\n[%s] Question %d/%d: %s\n", session.Clock(s.Remaining()), i+1, len(s.Questions()), q.Text)
			for _, label := range models.OptionLabels {
				if q.HasOption(label) {
					fmt.Fprintf(out, "  %s) %s\n", label, q.Option(label))
				}
			}
			fmt.Fprint(out, "> ")

			var line string
			var ok bool
			select {
			case <-s.Done():
				return false
			case <-ctx.Done():
				s.Cancel()
				return false
			case line, ok = <-lines:
			}
			if !ok {
				// stdin closed: submit what we have
				return true
			}

			line = strings.TrimSpace(line)
			if strings.EqualFold(line, "q") {
				s.Cancel()
				return false
			}
			if line == "" {
				break
			}
			if err := s.Choose(q.ID, line); err != nil {
				if err == session.ErrFinished {
					return false
				}
				fmt.Fprintf(out, "%q is not an option, try again.\n", line)
				continue
			}
			break
		}
	}
	return true
}

func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func printResult(out io.Writer, questions []models.PublicQuestion, result *models.ScoreResult) {
	if result == nil {
		return
	}
	text := make(map[int]string, len(questions))
	for _, q := range questions {
		text[q.ID] = q.Text
	}

	fmt.Fprintln(out)
	for _, d := range result.Details {
		mark := "✗"
		if d.IsCorrect {
			mark = "✓"
		}
		correct := "?"
		if d.CorrectAnswer != nil {
			correct = *d.CorrectAnswer
		}
		fmt.Fprintf(out, "%s %s\n    your answer: %s, correct: %s\n", mark, text[d.QuestionID], d.UserAnswer, correct)
	}
	fmt.Fprintf(out, "\nScore: %d/%d\n", result.Correct, result.Total)
}

// lockedWriter serializes writes from the prompt loop and the timer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
