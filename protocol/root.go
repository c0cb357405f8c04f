package protocol

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datazip-inc/olake-hydrator/constants"
	"github.com/datazip-inc/olake-hydrator/utils"
	"github.com/datazip-inc/olake-hydrator/utils/logger"
)

var (
	configPath    string
	inputPath     string
	outputPath    string
	catalogPath   string
	diffPath      string
	streamsPath   string
	statePath     string
	connectionID  string
	stateFrom     string
	stateTo       string
	encryptionKey string
	logLevel      string

	commands = []*cobra.Command{}
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "olake-hydrator",
	Short: "hydrates replication inputs for sync attempts",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		viper.SetEnvPrefix(constants.EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		viper.AutomaticEnv()

		if configPath != "" {
			viper.SetConfigFile(configPath)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config[%s]: %s", configPath, err)
			}
		}
		if encryptionKey != "" {
			viper.Set(constants.EncryptionKey, encryptionKey)
		}
		if logLevel != "" {
			viper.Set(constants.LogLevel, logLevel)
		}

		logger.Init()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		if ok := utils.IsValidSubcommand(commands, args[0]); !ok {
			return fmt.Errorf("'%s' is an invalid command. Use 'olake-hydrator --help' to display usage guide", args[0])
		}
		return nil
	},
}

func CreateRootCommand() *cobra.Command {
	return RootCmd
}

func init() {
	commands = append(commands, hydrateCmd, backfillPlanCmd, resetCatalogCmd, convertStateCmd)
	RootCmd.AddCommand(commands...)

	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "", "", "(Optional) Hydrator config with store, secrets, flags and retry sections")
	RootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "(Optional) File to write the result to; stdout when omitted")
	RootCmd.PersistentFlags().StringVarP(&encryptionKey, "encryption-key", "", "", "(Optional) Decryption key. Provide the ARN of a KMS key, a UUID, or a custom string based on your encryption configuration.")
	RootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "(Optional) Log level: debug, info, warn, error")
	// Disable Cobra CLI's built-in usage and error handling
	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true
}
