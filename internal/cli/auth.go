package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jaganpro/sf-schema-viewer/pkg/salesforce"
	"github.com/Jaganpro/sf-schema-viewer/pkg/session"
)

// cliSessionTTL is the duration for CLI sessions (30 days). Refresh
// tokens keep the access token alive well past its own expiry.
const cliSessionTTL = 30 * 24 * time.Hour

// defaultCLICallback is the loopback callback used when the config does
// not point at localhost. The connected app must list it as a callback
// URL.
const defaultCLICallback = "http://localhost:8787/callback"

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Salesforce authentication commands",
		Long: `Authenticate with a Salesforce org and manage the stored session.

Login opens your browser for the OAuth flow and captures the callback on
a local port. Your session is stored in ~/.config/schemaviewer/sessions/`,
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authStatusCommand())

	return cmd
}

// authLoginCommand creates the login subcommand.
func (c *CLI) authLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Salesforce via the browser",
		Long: `Start the Salesforce web-server OAuth flow.

Your browser opens the Salesforce login page; after you approve access
the CLI captures the callback locally and stores the session for future
commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if existing, _ := loadCLISession(ctx); existing != nil && !existing.IsExpired() {
				printInfo("Already logged in as %s", existing.Username)
				printDetail("Run 'schemaviewer auth logout' first to re-authenticate")
				return nil
			}

			_, err := c.runLogin(ctx)
			return err
		},
	}
}

// authLogoutCommand creates the logout subcommand.
func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored Salesforce credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deleteCLISession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// authStatusCommand creates the status subcommand.
func (c *CLI) authStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the currently authenticated Salesforce session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := loadCLISession(ctx)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			spinner := newSpinnerWithContext(ctx, "Verifying session...")
			spinner.Start()

			client, err := salesforce.NewClient(sess.InstanceURL, sess.AccessToken)
			if err != nil {
				spinner.StopWithError("Session invalid")
				return err
			}
			if _, err := client.APIVersions(ctx); err != nil {
				spinner.StopWithError("Session invalid")
				return fmt.Errorf("verify session: %w", err)
			}
			spinner.Stop()

			printSuccess("Salesforce Session")
			printKeyValue("Username", sess.Username)
			if sess.DisplayName != "" {
				printKeyValue("Name", sess.DisplayName)
			}
			printKeyValue("Org", sess.OrgID)
			printKeyValue("Instance", sess.InstanceURL)
			printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))

			return nil
		},
	}
}

// =============================================================================
// Session Management
// =============================================================================

// loadCLISession loads the Salesforce session from disk.
func loadCLISession(ctx context.Context) (*session.Session, error) {
	store, err := session.NewCLIStore()
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sess, err := store.GetSession(ctx)
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
		return nil, fmt.Errorf("not logged in (run 'schemaviewer auth login' first)")
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return sess, nil
}

func saveCLISession(ctx context.Context, token *salesforce.OAuthToken, identity *salesforce.Identity) (*session.Session, error) {
	store, err := session.NewCLIStore()
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sess := session.New(token.AccessToken, token.RefreshToken, token.InstanceURL, cliSessionTTL)
	sess.UserID = identity.UserID
	sess.Username = identity.Username
	sess.DisplayName = identity.DisplayName
	sess.Email = identity.Email
	sess.OrgID = identity.OrgID

	if err := store.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return sess, nil
}

func deleteCLISession(ctx context.Context) error {
	store, err := session.NewCLIStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	return store.DeleteSession(ctx)
}

// =============================================================================
// Browser Login
// =============================================================================

func (c *CLI) runLogin(ctx context.Context) (*session.Session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Salesforce.ClientID == "" || cfg.Salesforce.ClientSecret == "" {
		return nil, fmt.Errorf("salesforce credentials not configured (set client_id and client_secret in the config file)")
	}

	callback := cfg.Salesforce.CallbackURL
	if !isLoopback(callback) {
		callback = defaultCLICallback
	}

	oauthClient := salesforce.NewOAuthClient(salesforce.OAuthConfig{
		ClientID:     cfg.Salesforce.ClientID,
		ClientSecret: cfg.Salesforce.ClientSecret,
		RedirectURI:  callback,
		LoginURL:     cfg.Salesforce.LoginURL,
	}, nil)

	loginCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	state, err := session.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	codeCh, shutdown, err := listenForCallback(callback, state)
	if err != nil {
		return nil, fmt.Errorf("start callback listener: %w", err)
	}
	defer shutdown()

	authURL := oauthClient.AuthorizationURL(state)
	printNewline()
	fmt.Println(StyleTitle.Render("Salesforce Login"))
	printNewline()
	printKeyValue("URL", StyleLink.Render(authURL))
	printNewline()

	if err := openBrowser(authURL); err != nil {
		printDetail("Copy the URL above and paste it in your browser")
	} else {
		printDetail("Opening browser...")
	}
	printInline("Waiting for authorization...")

	var code string
	select {
	case code = <-codeCh:
	case <-loginCtx.Done():
		fmt.Println()
		return nil, fmt.Errorf("authorization timed out")
	}

	token, err := oauthClient.ExchangeCode(loginCtx, code)
	if err != nil {
		fmt.Println()
		return nil, fmt.Errorf("authorization failed: %w", err)
	}

	identity, err := oauthClient.FetchIdentity(loginCtx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch identity: %w", err)
	}

	sess, err := saveCLISession(ctx, token, identity)
	if err != nil {
		return nil, err
	}

	fmt.Println()
	printSuccess("Logged in as %s", identity.Username)

	return sess, nil
}

// listenForCallback serves the OAuth callback on the loopback address
// named by callbackURL, delivering the authorization code on the
// returned channel. Requests with a mismatched state are rejected.
func listenForCallback(callbackURL, state string) (<-chan string, func(), error) {
	parsed, err := url.Parse(callbackURL)
	if err != nil {
		return nil, nil, err
	}

	listener, err := net.Listen("tcp", parsed.Host)
	if err != nil {
		return nil, nil, err
	}

	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(parsed.Path, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "Login complete. You can close this window and return to the terminal.")
		select {
		case codeCh <- code:
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(listener) }()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return codeCh, shutdown, nil
}

// isLoopback reports whether the URL points at localhost, so the CLI
// can capture the callback itself.
func isLoopback(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func openBrowser(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
