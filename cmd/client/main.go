package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/portfolio/internal/client/api"
)

var (
	version   string
	buildDate string
)

// shell holds the state of one interactive session.
type shell struct {
	client *api.Client
	prompt *api.Prompter
	out    io.Writer
	token  string
}

// repl runs the interactive loop until "exit" or end of input.
func (s *shell) repl(ctx context.Context) {
	for {
		args := strings.Fields(s.prompt.Ask("portfolio> "))
		if s.prompt.EOF() {
			return
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.run(ctx, args); err != nil {
			if api.IsServerError(err) {
				fmt.Fprintln(s.out, "server:", err)
				continue
			}
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

func (s *shell) run(ctx context.Context, args []string) error {
	needID := func() (string, error) {
		if len(args) < 2 {
			return "", fmt.Errorf("usage: %s <id>", args[0])
		}
		return args[1], nil
	}

	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, "Available commands: help, login, check, list, get <id>, add, edit <id>, delete <id>, contact, exit")
	case "login":
		user, pass := s.prompt.Credentials()
		token, err := s.client.Login(ctx, user, pass)
		if err != nil {
			return err
		}
		s.token = token
		fmt.Fprintln(s.out, "Logged in")
	case "check":
		msg, err := s.client.CheckToken(ctx, s.token)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, msg)
	case "list":
		projects, err := s.client.ListProjects(ctx)
		if err != nil {
			return err
		}
		for _, p := range projects {
			fmt.Fprintf(s.out, "%s  %-10s %s\n", p.ID, p.Category, p.Name)
		}
	case "get":
		id, err := needID()
		if err != nil {
			return err
		}
		p, err := s.client.GetProject(ctx, id)
		if err != nil {
			return err
		}
		b, _ := json.MarshalIndent(p, "", "  ")
		fmt.Fprintln(s.out, string(b))
	case "add":
		msg, err := s.client.CreateProject(ctx, s.prompt.NewProject())
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, msg)
	case "edit":
		id, err := needID()
		if err != nil {
			return err
		}
		cur, err := s.client.GetProject(ctx, id)
		if err != nil {
			return err
		}
		msg, err := s.client.UpdateProject(ctx, id, s.prompt.EditProject(*cur))
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, msg)
	case "delete":
		id, err := needID()
		if err != nil {
			return err
		}
		msg, err := s.client.DeleteProject(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, msg)
	case "contact":
		msg, err := s.client.Contact(ctx, s.prompt.Contact())
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, msg)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func main() {
	var (
		baseURL string
		timeout time.Duration
		showVer bool
	)
	flag.StringVar(&baseURL, "url", "http://localhost:8000", "server base URL")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Portfolio Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	s := &shell{
		client: api.New(baseURL, timeout),
		prompt: api.NewPrompter(os.Stdin, os.Stdout),
		out:    os.Stdout,
	}
	s.repl(context.Background())
}
