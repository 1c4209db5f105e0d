package cmd

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// adminCmd manages protocol risk parameters and the pause switch.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "manage protocol parameters",
}

var setRatioCmd = &cobra.Command{
	Use:   "set-ratio <bps>",
	Short: "set the collateralization ratio in basis points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bps, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		database := provideDatabase()
		defer database.Close()

		return provideStateStore(database).SetRatioBps(cmd.Context(), bps)
	},
}

var setRateCmd = &cobra.Command{
	Use:   "set-rate <rate-per-second>",
	Short: "set the linear interest rate per second",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := decimal.NewFromString(args[0])
		if err != nil {
			return err
		}

		database := provideDatabase()
		defer database.Close()

		return provideStateStore(database).SetRatePerSecond(cmd.Context(), rate)
	},
}

var setBonusCmd = &cobra.Command{
	Use:   "set-bonus <bps>",
	Short: "set the liquidation bonus in basis points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bps, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		database := provideDatabase()
		defer database.Close()

		return provideStateStore(database).SetBonusBps(cmd.Context(), bps)
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "pause all mutating operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database := provideDatabase()
		defer database.Close()

		return provideStateStore(database).SetPaused(cmd.Context(), true)
	},
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "resume mutating operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database := provideDatabase()
		defer database.Close()

		return provideStateStore(database).SetPaused(cmd.Context(), false)
	},
}

func init() {
	adminCmd.AddCommand(setRatioCmd, setRateCmd, setBonusCmd, pauseCmd, unpauseCmd)
	rootCmd.AddCommand(adminCmd)
}
