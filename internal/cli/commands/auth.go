package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/jjalhub/jjal-cli/internal/auth"
	"github.com/jjalhub/jjal-cli/internal/models"
)

func NewAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign up, sign in and inspect the current session",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create a new account",
				Action: func(c *cli.Context) error {
					return handleRegister()
				},
			},
			{
				Name:  "login",
				Usage: "Sign in with existing credentials",
				Action: func(c *cli.Context) error {
					return handleLogin()
				},
			},
			{
				Name:  "logout",
				Usage: "Forget the stored session",
				Action: func(c *cli.Context) error {
					return handleLogout()
				},
			},
			{
				Name:  "whoami",
				Usage: "Show the signed-in user",
				Action: func(c *cli.Context) error {
					return handleWhoami()
				},
			},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowCommandHelp(c, "auth")
		},
	}
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("could not read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return strings.TrimSpace(string(password)), nil
}

func handleRegister() error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	if !env.Client.Configured() {
		return fmt.Errorf("no backend configured. Set JJAL_BACKEND_URL and JJAL_ANON_KEY first")
	}

	reader := bufio.NewReader(os.Stdin)
	email, err := promptLine(reader, "Enter your email: ")
	if err != nil {
		return err
	}
	nickname, err := promptLine(reader, "Enter a nickname (2-20 characters): ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Enter a password: ")
	if err != nil {
		return err
	}

	input := models.SignUpInput{Email: email, Password: password, Nickname: nickname}
	if err := input.Validate(); err != nil {
		return err
	}

	apiSession, err := env.Client.SignUp(context.Background(), input)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if apiSession.AccessToken == "" {
		fmt.Println("✅ Account created. Check your email to confirm, then run 'jjal auth login'.")
		return nil
	}

	session := &auth.Session{
		AccessToken: apiSession.AccessToken,
		UserID:      apiSession.UserID,
		Email:       apiSession.Email,
		Nickname:    nickname,
		Role:        models.RoleUser,
	}
	if err := env.Sessions.Save(session); err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}

	fmt.Printf("✅ Registered and signed in as %s (%s)\n", nickname, apiSession.Email)
	return nil
}

func handleLogin() error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	if !env.Client.Configured() {
		return fmt.Errorf("no backend configured. Set JJAL_BACKEND_URL and JJAL_ANON_KEY first")
	}

	reader := bufio.NewReader(os.Stdin)
	email, err := promptLine(reader, "Enter your email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Enter your password: ")
	if err != nil {
		return err
	}

	apiSession, err := env.Client.SignIn(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	env.Client.AccessToken = apiSession.AccessToken

	// Role and nickname lookups are best-effort; sign-in proceeds without.
	role, err := env.Client.FetchRole(context.Background(), apiSession.UserID)
	if err != nil {
		fmt.Printf("⚠️  could not fetch role, assuming regular user: %v\n", err)
		role = models.RoleUser
	}
	nickname, err := env.Client.FetchNickname(context.Background(), apiSession.UserID)
	if err != nil {
		nickname = ""
	}

	session := &auth.Session{
		AccessToken: apiSession.AccessToken,
		UserID:      apiSession.UserID,
		Email:       apiSession.Email,
		Nickname:    nickname,
		Role:        role,
	}
	if err := env.Sessions.Save(session); err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}

	who := nickname
	if who == "" {
		who = apiSession.Email
	}
	fmt.Printf("✅ Signed in as %s", who)
	if role == models.RoleAdmin {
		fmt.Print(" (admin)")
	}
	fmt.Println()
	return nil
}

func handleLogout() error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	if err := env.Sessions.Clear(); err != nil {
		return err
	}
	fmt.Println("✅ Signed out")
	return nil
}

func handleWhoami() error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	if env.Session == nil {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("User:     %s\n", env.Session.Email)
	if env.Session.Nickname != "" {
		fmt.Printf("Nickname: %s\n", env.Session.Nickname)
	}
	fmt.Printf("Role:     %s\n", env.Session.Role)
	return nil
}
