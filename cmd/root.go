package cmd

import (
	"os"

	"ssrmodes/internal/config"
	"ssrmodes/internal/posts"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ssrmodes",
	Short: "Blog demo served out of order, in order and async",
	Long: "Serves a small blog whose home page streams out of order while post pages " +
		"render async (/post/{id}) or in order (/post_in_order/{id}).",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (YAML)")
	flags.String("listen", "", "listen address (default :3000)")
	flags.Duration("delay", posts.DefaultDelay, "simulated latency of every data endpoint call")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag(config.KeyListenAddr, flags.Lookup("listen"))
	_ = viper.BindPFlag(config.KeyDataDelay, flags.Lookup("delay"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, postsCmd)
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
		cobra.CheckErr(viper.ReadInConfig())
	}
}

func loadConfig() config.Config {
	return config.Load(viper.GetViper())
}

func newPostService(cfg config.Config) (*posts.Service, error) {
	store, err := posts.NewStore(posts.SeedPosts())
	if err != nil {
		return nil, err
	}
	return posts.NewService(store, cfg.DataDelay), nil
}
