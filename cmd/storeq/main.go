package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/osvaldoandrade/storeq/pkg/auth"
	"github.com/osvaldoandrade/storeq/pkg/auth/hmac"
)

type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// envelope is the API response wrapper shared by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type principalResp struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"isAdmin"`
	IsModerator bool   `json:"isModerator"`
}

type productResp struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID string  `json:"categoryId"`
	InStock    bool    `json:"inStock"`
}

type categoryResp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ui struct {
	title func(a ...any) string
	ok    func(a ...any) string
	info  func(a ...any) string
	warn  func(a ...any) string
	err   func(a ...any) string
	dim   func(a ...any) string
}

type profile struct {
	BaseURL  string `yaml:"baseUrl"`
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

type cliConfig struct {
	CurrentProfile string             `yaml:"currentProfile"`
	Profiles       map[string]profile `yaml:"profiles"`
}

func newUI() *ui {
	return &ui{
		title: color.New(color.FgHiCyan, color.Bold).SprintFunc(),
		ok:    color.New(color.FgGreen, color.Bold).SprintFunc(),
		info:  color.New(color.FgCyan).SprintFunc(),
		warn:  color.New(color.FgYellow).SprintFunc(),
		err:   color.New(color.FgRed, color.Bold).SprintFunc(),
		dim:   color.New(color.FgHiBlack).SprintFunc(),
	}
}

func (c *client) request(method, path string, body any) (int, []byte, error) {
	var buf *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = bytes.NewReader(b)
	} else {
		buf = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.baseURL+path, buf)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, nil
}

// call unwraps the response envelope, turning API failures into errors.
func (c *client) call(method, path string, body any, out any) error {
	status, raw, err := c.request(method, path, body)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("error (%d): %s", status, string(raw))
	}
	if status >= 300 || !env.Success {
		if env.Error != "" {
			return fmt.Errorf("error (%d): %s", status, env.Error)
		}
		return fmt.Errorf("error (%d): %s", status, string(raw))
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func main() {
	baseURL := getenv("STOREQ_BASE_URL", "http://localhost:8080")
	token := getenv("STOREQ_TOKEN", "")
	profileName := getenv("STOREQ_PROFILE", "")
	ui := newUI()

	root := &cobra.Command{
		Use:   "storeq",
		Short: "storeQ CLI",
		Long:  "storeQ CLI for catalog administration and account operations.",
	}
	root.SetHelpTemplate(helpTemplate(ui))
	root.SilenceUsage = true

	root.PersistentFlags().StringVar(&baseURL, "base-url", baseURL, "Base URL for storeQ")
	root.PersistentFlags().StringVar(&token, "token", token, "Bearer token")
	root.PersistentFlags().StringVar(&profileName, "profile", profileName, "Config profile")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, _, _ := loadConfig()
		active := resolveProfileName(profileName, cfg)
		prof := cfg.Profiles[active]

		flags := cmd.Flags()
		if !flags.Changed("base-url") {
			if v := strings.TrimSpace(os.Getenv("STOREQ_BASE_URL")); v != "" {
				baseURL = v
			} else if prof.BaseURL != "" {
				baseURL = prof.BaseURL
			}
		}
		if !flags.Changed("token") {
			if v := strings.TrimSpace(os.Getenv("STOREQ_TOKEN")); v != "" {
				token = v
			} else if prof.Token != "" {
				token = prof.Token
			}
		}
		if !flags.Changed("profile") && profileName == "" && active != "" {
			profileName = active
		}
		return nil
	}

	root.AddCommand(initCmd(&profileName, ui))
	root.AddCommand(authCmd(&baseURL, &profileName, ui))
	root.AddCommand(productCmd(&baseURL, &token, ui))
	root.AddCommand(categoryCmd(&baseURL, &token, ui))
	root.AddCommand(userCmd(&baseURL, &token, ui))
	root.AddCommand(seedCmd(&baseURL, &token, ui))
	root.AddCommand(tokenCmd(ui))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.err("[ERROR]"), err.Error())
		os.Exit(1)
	}
}

func initCmd(profileName *string, ui *ui) *cobra.Command {
	var (
		baseURL  string
		token    string
		noPrompt bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize CLI config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadConfig()
			if err != nil {
				return err
			}
			active := resolveProfileName(*profileName, cfg)
			prof := cfg.Profiles[active]

			if baseURL == "" {
				baseURL = prof.BaseURL
			}
			if baseURL == "" {
				baseURL = "http://localhost:8080"
			}

			if !noPrompt {
				reader := bufio.NewReader(os.Stdin)
				baseURL = prompt(reader, "Base URL", baseURL)
				if token == "" {
					token = prompt(reader, "Token (optional)", "")
				}
			}

			prof.BaseURL = strings.TrimSpace(baseURL)
			if token != "" {
				prof.Token = strings.TrimSpace(token)
			}

			if cfg.Profiles == nil {
				cfg.Profiles = map[string]profile{}
			}
			cfg.Profiles[active] = prof
			if cfg.CurrentProfile == "" || *profileName != "" {
				cfg.CurrentProfile = active
			}

			if err := saveConfig(cfg, cfgPath); err != nil {
				return err
			}
			fmt.Printf("%s Initialized profile '%s' at %s\n", ui.ok("[OK]"), active, cfgPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL for storeQ")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Disable interactive prompts")
	return cmd
}

func authCmd(baseURL *string, profileName *string, ui *ui) *cobra.Command {
	authRoot := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored credentials",
	}

	var (
		loginUsername string
		loginPassword string
		noPrompt      bool
	)
	login := &cobra.Command{
		Use:   "login",
		Short: "Login and store token",
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(loginUsername)
			password := strings.TrimSpace(loginPassword)
			if username == "" && !noPrompt {
				reader := bufio.NewReader(os.Stdin)
				username = prompt(reader, "Username", "")
			}
			if password == "" && !noPrompt {
				p, err := promptSecret("Password")
				if err != nil {
					return err
				}
				password = p
			}
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}

			cfg, cfgPath, err := loadConfig()
			if err != nil {
				return err
			}
			active := resolveProfileName(*profileName, cfg)
			prof := cfg.Profiles[active]
			if prof.BaseURL == "" {
				prof.BaseURL = *baseURL
			}

			c := newClient(prof.BaseURL, "")
			var out struct {
				Token     string        `json:"token"`
				ExpiresAt time.Time     `json:"expiresAt"`
				User      principalResp `json:"user"`
			}
			spin := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
			spin.Suffix = " Logging in..."
			spin.Start()
			err = c.call(http.MethodPost, "/api/auth/login", map[string]string{
				"username": username,
				"password": password,
			}, &out)
			spin.Stop()
			if err != nil {
				return err
			}
			if out.Token == "" {
				return errors.New("login returned empty token")
			}

			prof.Username = username
			prof.Token = out.Token
			if cfg.Profiles == nil {
				cfg.Profiles = map[string]profile{}
			}
			cfg.Profiles[active] = prof
			cfg.CurrentProfile = active
			if err := saveConfig(cfg, cfgPath); err != nil {
				return err
			}
			fmt.Printf("%s Logged in as %s. Token stored for '%s' (expires %s)\n",
				ui.ok("[OK]"), out.User.Username, active, out.ExpiresAt.Local().Format(time.RFC3339))
			return nil
		},
	}
	login.Flags().StringVar(&loginUsername, "username", "", "Username for login")
	login.Flags().StringVar(&loginPassword, "password", "", "Password for login")
	login.Flags().BoolVar(&noPrompt, "no-prompt", false, "Disable interactive prompts")

	var setToken string
	set := &cobra.Command{
		Use:   "set",
		Short: "Store a token in config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(setToken) == "" {
				return errors.New("provide --token")
			}
			cfg, cfgPath, err := loadConfig()
			if err != nil {
				return err
			}
			active := resolveProfileName(*profileName, cfg)
			prof := cfg.Profiles[active]
			prof.Token = strings.TrimSpace(setToken)
			if cfg.Profiles == nil {
				cfg.Profiles = map[string]profile{}
			}
			cfg.Profiles[active] = prof
			if cfg.CurrentProfile == "" || *profileName != "" {
				cfg.CurrentProfile = active
			}
			if err := saveConfig(cfg, cfgPath); err != nil {
				return err
			}
			fmt.Printf("%s Credentials updated for '%s'\n", ui.ok("[OK]"), active)
			return nil
		},
	}
	set.Flags().StringVar(&setToken, "token", "", "Bearer token")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show stored credentials (masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			active := resolveProfileName(*profileName, cfg)
			prof := cfg.Profiles[active]
			fmt.Printf("%s Profile: %s\n", ui.title("storeq"), active)
			fmt.Printf("%s Base URL: %s\n", ui.info("•"), emptyOr(prof.BaseURL, "<unset>"))
			fmt.Printf("%s Username: %s\n", ui.info("•"), emptyOr(prof.Username, "<unset>"))
			fmt.Printf("%s Token:    %s\n", ui.info("•"), maskToken(prof.Token))
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Clear stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadConfig()
			if err != nil {
				return err
			}
			active := resolveProfileName(*profileName, cfg)
			prof := cfg.Profiles[active]
			prof.Token = ""
			cfg.Profiles[active] = prof
			if err := saveConfig(cfg, cfgPath); err != nil {
				return err
			}
			fmt.Printf("%s Token cleared for '%s'\n", ui.ok("[OK]"), active)
			return nil
		},
	}

	authRoot.AddCommand(login, set, show, clear)
	return authRoot
}

func productCmd(baseURL, token *string, ui *ui) *cobra.Command {
	product := &cobra.Command{
		Use:   "product",
		Short: "Product operations",
	}

	var categoryFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(*baseURL, *token)
			path := "/api/products"
			if categoryFilter != "" {
				path += "?category=" + url.QueryEscape(categoryFilter)
			}
			var out []productResp
			spin := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
			spin.Suffix = " Fetching products..."
			spin.Start()
			err := c.call(http.MethodGet, path, nil, &out)
			spin.Stop()
			if err != nil {
				return err
			}
			if len(out) == 0 {
				fmt.Println(ui.dim("no products"))
				return nil
			}
			for _, p := range out {
				stock := ui.ok("in stock")
				if !p.InStock {
					stock = ui.warn("out of stock")
				}
				fmt.Printf("%s %s  %.2f  %s  %s\n", ui.info("•"), p.ID, p.Price, p.Name, stock)
			}
			return nil
		},
	}
	list.Flags().StringVar(&categoryFilter, "category", "", "Filter by category id")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(*baseURL, *token)
			var out json.RawMessage
			spin := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
			spin.Suffix = " Fetching product..."
			spin.Start()
			err := c.call(http.MethodGet, "/api/products/"+url.PathEscape(args[0]), nil, &out)
			spin.Stop()
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	var (
		name        string
		description string
		price       float64
		categoryID  string
		inStock     bool
	)
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a product (admin)",
		Example: "storeq product create --name 'Model M' --price 129.99 --category <id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return errors.New("name is required")
			}
			if strings.TrimSpace(categoryID) == "" {
				return errors.New("category is required")
			}
			if err := requireToken(*token); err != nil {
				return err
			}
			c := newClient(*baseURL, *token)
			var out productResp
			spin := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
			spin.Suffix = " Creating product..."
			spin.Start()
			err := c.call(http.MethodPost, "/api/products", map[string]any{
				"name":        name,
				"description": description,
				"price":       price,
				"categoryId":  categoryID,
				"inStock":     inStock,
			}, &out)
			spin.Stop()
			if err != nil {
				return err
			}
			fmt.Printf("%s Product created: %s\n", ui.ok("[OK]"), out.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Product name")
	create.Flags().StringVar(&description, "description", "", "Product description")
	create.Flags().Float64Var(&price, "price", 0, "Price")
	create.Flags().StringVar(&categoryID, "category", "", "Category id")
	create.Flags().BoolVar(&inStock, "in-stock", true, "In stock")

	product.AddCommand(list, get, create)
	return product
}

func categoryCmd(baseURL, token *string, ui *ui) *cobra.Command {
	category := &cobra.Command{
		Use:   "category",
		Short: "Category operations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(*baseURL, *token)
			var out []categoryResp
			spin := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
			spin.Suffix = " Fetching categories..."
			spin.Start()
			err := c.call(http.MethodGet, "/api/categories", nil, &out)
			spin.Stop()
			if err != nil {
				return err
			}
			if len(out) == 0 {
				fmt.Println(ui.dim("no categories"))
				return nil
			}
			for _, cat := range out {
				fmt.Printf("%s %s  %s %s\n", ui.info("•"), cat.ID, cat.Name, ui.dim("("+cat.Slug+")"))
			}
			return nil
		},
	}

	var (
		name        string
		description string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return errors.New("name is required")
			}
			if err := requireToken(*token); err != nil {
				return err
			}
			c := newClient(*baseURL, *token)
			var out categoryResp
			spin := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
			spin.Suffix = " Creating category..."
			spin.Start()
			err := c.call(http.MethodPost, "/api/categories", map[string]any{
				"name":        name,
				"description": description,
			}, &out)
			spin.Stop()
			if err != nil {
				return err
			}
			fmt.Printf("%s Category created: %s (%s)\n", ui.ok("[OK]"), out.ID, out.Slug)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Category name")
	create.Flags().StringVar(&description, "description", "", "Category description")

	category.AddCommand(list, create)
	return category
}

func userCmd(baseURL, token *string, ui *ui) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "User operations (staff)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(*token); err != nil {
				return err
			}
			c := newClient(*baseURL, *token)
			var out []principalResp
			spin := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
			spin.Suffix = " Fetching users..."
			spin.Start()
			err := c.call(http.MethodGet, "/api/users", nil, &out)
			spin.Stop()
			if err != nil {
				return err
			}
			for _, u := range out {
				role := ui.dim("user")
				if u.IsAdmin {
					role = ui.err("admin")
				} else if u.IsModerator {
					role = ui.warn("moderator")
				}
				fmt.Printf("%s %s  %s <%s>  %s\n", ui.info("•"), u.ID, u.Username, u.Email, role)
			}
			return nil
		},
	}

	me := &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(*token); err != nil {
				return err
			}
			c := newClient(*baseURL, *token)
			var out principalResp
			if err := c.call(http.MethodGet, "/api/auth/me", nil, &out); err != nil {
				return err
			}
			fmt.Printf("%s %s <%s> admin=%v moderator=%v\n", ui.ok("[OK]"), out.Username, out.Email, out.IsAdmin, out.IsModerator)
			return nil
		},
	}

	user.AddCommand(list, me)
	return user
}

func seedCmd(baseURL, token *string, ui *ui) *cobra.Command {
	var (
		categories int
		products   int
	)
	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Seed demo catalog data (admin)",
		Example: "storeq seed --categories 3 --products 20",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(*token); err != nil {
				return err
			}
			if categories <= 0 {
				categories = 3
			}
			if products <= 0 {
				products = 12
			}
			c := newClient(*baseURL, *token)

			catIDs := make([]string, 0, categories)
			for i := 0; i < categories; i++ {
				var out categoryResp
				err := c.call(http.MethodPost, "/api/categories", map[string]any{
					"name":        fmt.Sprintf("Seed Category %d", i+1),
					"description": "seeded",
				}, &out)
				if err != nil {
					// Re-runs hit the slug uniqueness check; look the category up instead.
					var existing []categoryResp
					if lookupErr := c.call(http.MethodGet, "/api/categories", nil, &existing); lookupErr != nil {
						return err
					}
					slug := fmt.Sprintf("seed-category-%d", i+1)
					found := false
					for _, cat := range existing {
						if cat.Slug == slug {
							catIDs = append(catIDs, cat.ID)
							found = true
							break
						}
					}
					if !found {
						return err
					}
					continue
				}
				catIDs = append(catIDs, out.ID)
			}
			fmt.Printf("%s %d categories ready\n", ui.ok("[OK]"), len(catIDs))

			bar := progressbar.NewOptions(products,
				progressbar.OptionSetDescription("Seeding products"),
				progressbar.OptionSetWidth(18),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			for i := 0; i < products; i++ {
				err := c.call(http.MethodPost, "/api/products", map[string]any{
					"name":       fmt.Sprintf("Seed Product %03d", i+1),
					"price":      float64(5+i) + 0.99,
					"categoryId": catIDs[i%len(catIDs)],
					"inStock":    i%4 != 0,
				}, nil)
				if err != nil {
					return err
				}
				_ = bar.Add(1)
			}
			fmt.Printf("%s Seeded %d products across %d categories\n", ui.ok("[OK]"), products, len(catIDs))
			return nil
		},
	}
	cmd.Flags().IntVar(&categories, "categories", 3, "Number of categories")
	cmd.Flags().IntVar(&products, "products", 12, "Number of products")
	return cmd
}

func tokenCmd(ui *ui) *cobra.Command {
	tokenRoot := &cobra.Command{
		Use:   "token",
		Short: "Token utilities",
	}

	var (
		secret   string
		issuer   string
		ttlMin   int
		userID   string
		username string
		email    string
	)
	mint := &cobra.Command{
		Use:     "mint",
		Short:   "Mint a shared-secret token locally (dev/CI)",
		Example: "storeq token mint --secret $AUTH_SECRET --user-id u1 --username dev",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(secret) == "" {
				secret = strings.TrimSpace(os.Getenv("AUTH_SECRET"))
			}
			if secret == "" {
				return errors.New("secret is required (--secret or AUTH_SECRET)")
			}
			if strings.TrimSpace(userID) == "" {
				return errors.New("user-id is required")
			}

			raw, err := json.Marshal(map[string]any{
				"secret":     secret,
				"issuer":     issuer,
				"ttlMinutes": ttlMin,
			})
			if err != nil {
				return err
			}
			verifier, err := hmac.NewProviderFromJSON(raw)
			if err != nil {
				return err
			}
			iss, ok := verifier.(auth.Issuer)
			if !ok {
				return errors.New("provider cannot issue tokens")
			}
			tok, expiresAt, err := iss.Issue(auth.Identity{
				UserID:   userID,
				Username: username,
				Email:    email,
			})
			if err != nil {
				return err
			}
			fmt.Println(tok)
			fmt.Fprintf(os.Stderr, "%s expires %s\n", ui.dim("#"), expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	mint.Flags().StringVar(&secret, "secret", "", "Shared HS256 secret")
	mint.Flags().StringVar(&issuer, "issuer", "", "Issuer claim")
	mint.Flags().IntVar(&ttlMin, "ttl-minutes", 60, "Token lifetime in minutes")
	mint.Flags().StringVar(&userID, "user-id", "", "Subject user id")
	mint.Flags().StringVar(&username, "username", "", "Username claim")
	mint.Flags().StringVar(&email, "email", "", "Email claim")

	tokenRoot.AddCommand(mint)
	return tokenRoot
}

func newClient(baseURL, token string) *client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is required (run `storeq auth login` or set token)")
	}
	return nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func helpTemplate(ui *ui) string {
	title := ui.title("storeq")
	return fmt.Sprintf(`%s — CLI for storeQ

Usage:
  {{.UseLine}}

Commands:
{{range .Commands}}{{if (or .IsAvailableCommand .IsAdditionalHelpTopicCommand)}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

Flags:
  {{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

Global Flags:
  {{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

Config:
  %s

Examples:
  storeq init
  storeq auth login --username admin
  storeq category create --name Keyboards
  storeq product create --name 'Model M' --price 129.99 --category <id>
  storeq seed --categories 3 --products 20

`, title, configPath())
}

func configPath() string {
	if v := strings.TrimSpace(os.Getenv("STOREQ_CONFIG_DIR")); v != "" {
		return filepath.Join(v, "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".storeq", "config.yaml")
}

func promptSecret(label string) (string, error) {
	fmt.Printf("%s: ", label)
	b, err := termReadPassword()
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func termReadPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		return []byte(strings.TrimSpace(line)), err
	}
	return term.ReadPassword(fd)
}

func loadConfig() (cliConfig, string, error) {
	path := configPath()
	var cfg cliConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cliConfig{Profiles: map[string]profile{}}, path, nil
		}
		return cfg, path, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, path, err
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]profile{}
	}
	return cfg, path, nil
}

func saveConfig(cfg cliConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func resolveProfileName(flag string, cfg cliConfig) string {
	if strings.TrimSpace(flag) != "" {
		return strings.TrimSpace(flag)
	}
	if v := strings.TrimSpace(os.Getenv("STOREQ_PROFILE")); v != "" {
		return v
	}
	if cfg.CurrentProfile != "" {
		return cfg.CurrentProfile
	}
	return "default"
}

func prompt(r *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := r.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func maskToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "<unset>"
	}
	if len(v) <= 8 {
		return "****"
	}
	return v[:4] + "..." + v[len(v)-4:]
}

func emptyOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
