package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tablelens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set TableLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "allowed_origins: %s\n", strings.Join(cfg.AllowedOrigins, ","))
		fmt.Fprintf(out, "max_upload_mb: %d\n", cfg.MaxUploadMB)
		fmt.Fprintf(out, "rate_limit_per_min: %d\n", cfg.RateLimitPerMin)
		fmt.Fprintf(out, "read_timeout_sec: %d\n", cfg.ReadTimeoutSec)
		fmt.Fprintf(out, "write_timeout_sec: %d\n", cfg.WriteTimeoutSec)
		fmt.Fprintf(out, "trust_proxy_headers: %t\n", cfg.TrustProxyHeaders)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		if cfg.LogFile != "" {
			fmt.Fprintf(out, "log_file: %s\n", cfg.LogFile)
		}
		fmt.Fprintf(out, "default_format: %s\n", cfg.DefaultFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "listen_addr":
			next.ListenAddr = val
		case "allowed_origins":
			var origins []string
			for _, o := range strings.Split(val, ",") {
				if o = strings.TrimSpace(o); o != "" {
					origins = append(origins, o)
				}
			}
			next.AllowedOrigins = origins
		case "max_upload_mb", "rate_limit_per_min", "read_timeout_sec", "write_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "max_upload_mb":
				next.MaxUploadMB = i
			case "rate_limit_per_min":
				next.RateLimitPerMin = i
			case "read_timeout_sec":
				next.ReadTimeoutSec = i
			default:
				next.WriteTimeoutSec = i
			}
		case "trust_proxy_headers":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			next.TrustProxyHeaders = b
		case "log_level":
			next.LogLevel = strings.ToLower(val)
		case "log_format":
			next.LogFormat = strings.ToLower(val)
		case "log_file":
			next.LogFile = val
		case "default_format":
			next.DefaultFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
