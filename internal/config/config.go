package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/sxcben/unit-repartition-project/internal/engine"
)

// Config carries everything main needs to wire the service. Total rent and
// participants may still be empty after Load; Wizard fills them from stdin
// the way a first-run setup would.
type Config struct {
	TotalRent    engine.Amount
	Participants []string

	Host string
	Port int

	// SessionSecret signs session tokens. Empty means the web layer
	// generates a random per-boot secret, which is acceptable because
	// sessions are not meant to survive restarts anyway.
	SessionSecret string

	// Discord announcements are enabled only when both are set.
	DiscordToken     string
	DiscordChannelID string

	EnableTunnel bool
	Debug        bool

	// nameCount is the --num flag: how many names the wizard should prompt
	// for, one by one, when --names is not given.
	nameCount int
}

// Load reads .env (if present), environment variables and command-line
// flags, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Host:             getEnvDefault("HOST", "0.0.0.0"),
		Port:             8000,
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: PORT=%q is not a number", engine.ErrConfiguration, v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("ENABLE_TUNNEL"); v != "" {
		enable, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: ENABLE_TUNNEL=%q is not a boolean", engine.ErrConfiguration, v)
		}
		cfg.EnableTunnel = enable
	}
	if v := os.Getenv("TOTAL_RENT"); v != "" {
		total, err := engine.ParseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("%w: TOTAL_RENT: %v", engine.ErrConfiguration, err)
		}
		cfg.TotalRent = total
	}
	if v := os.Getenv("PARTICIPANTS"); v != "" {
		cfg.Participants = splitNames(v)
	}

	fs := pflag.NewFlagSet("roomswap", pflag.ContinueOnError)
	total := fs.String("total", "", "total rent, e.g. 3606")
	names := fs.String("names", "", `comma-separated participant names, e.g. "Karim,Hassan,Benjamin"`)
	fs.IntVar(&cfg.nameCount, "num", 0, "number of participants (prompts for each name)")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "host to bind")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port to bind")
	fs.BoolVar(&cfg.EnableTunnel, "tunnel", cfg.EnableTunnel, "expose the server publicly via localtunnel")
	fs.BoolVar(&cfg.Debug, "debug", false, "verbose development logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *total != "" {
		parsed, err := engine.ParseAmount(*total)
		if err != nil {
			return nil, fmt.Errorf("%w: --total: %v", engine.ErrConfiguration, err)
		}
		cfg.TotalRent = parsed
	}
	if *names != "" {
		cfg.Participants = splitNames(*names)
	}
	return cfg, nil
}

// Addr is the host:port the web server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Wizard interactively completes whatever Load left missing: it re-prompts
// until the total rent is positive and at least two distinct names exist.
// Duplicate names (compared case-insensitively) are dropped with a notice.
// When flags or env already provided everything it never prompts.
func (c *Config) Wizard(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for c.TotalRent <= 0 {
		fmt.Fprint(out, "Enter total rent (e.g., 3606): ")
		raw, err := readLine(scanner)
		if err != nil {
			return err
		}
		if raw == "" {
			continue
		}
		total, err := engine.ParseAmount(raw)
		if err != nil {
			fmt.Fprintln(out, "Please enter a valid number.")
			continue
		}
		if total <= 0 {
			fmt.Fprintln(out, "Total must be positive.")
			continue
		}
		c.TotalRent = total
	}

	if len(c.Participants) == 0 && c.nameCount > 0 {
		for i := 0; i < c.nameCount; i++ {
			for {
				fmt.Fprintf(out, "Name #%d: ", i+1)
				name, err := readLine(scanner)
				if err != nil {
					return err
				}
				if name != "" {
					c.Participants = append(c.Participants, name)
					break
				}
			}
		}
	}
	for len(c.Participants) == 0 {
		fmt.Fprint(out, "Enter names (comma-separated): ")
		raw, err := readLine(scanner)
		if err != nil {
			return err
		}
		names := splitNames(raw)
		if len(names) < 2 {
			fmt.Fprintln(out, "Please enter at least two names.")
			continue
		}
		c.Participants = names
	}

	deduped := dedupeNames(c.Participants)
	if len(deduped) != len(c.Participants) {
		fmt.Fprintln(out, "Note: duplicate names were removed.")
		c.Participants = deduped
	}

	if c.TotalRent <= 0 || len(c.Participants) < 2 {
		return fmt.Errorf("%w: need a positive total rent and at least two participants", engine.ErrConfiguration)
	}
	return nil
}

func readLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: reading input: %v", engine.ErrConfiguration, err)
		}
		return "", fmt.Errorf("%w: input closed before setup finished", engine.ErrConfiguration)
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func splitNames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// dedupeNames keeps the first occurrence of each name, comparing
// case-insensitively so "Karim" and "karim" cannot both join.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
