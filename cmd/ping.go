package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BurkeyCode/routecheck/log"
	"github.com/BurkeyCode/routecheck/pinger"
)

type pingArgs struct {
	count        int
	interval     int
	timeout      int
	useRawSocket bool
	verbose      bool
}

var PingArgs pingArgs

var pingCmd = &cobra.Command{
	Use:   "ping [destination]",
	Short: "Send echo requests to a destination and report reply statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, posArgs []string) error {
		log.SetVerbose(PingArgs.verbose)

		cfg := &pinger.Config{
			UseRawSocket: PingArgs.useRawSocket,
			Delay:        time.Duration(PingArgs.interval) * time.Millisecond,
			Timeout:      time.Duration(PingArgs.timeout) * time.Millisecond,
			Count:        PingArgs.count,
		}

		res, err := pinger.RunPing(cfg, posArgs[0])
		if err != nil {
			return err
		}
		jsonStr, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("JSON marshalling failed: %v", err)
		}
		fmt.Println(string(jsonStr))
		return nil
	},
}

func init() {
	pingCmd.Flags().IntVarP(&PingArgs.count, "count", "c", pinger.DefaultCount, "Number of echo requests to send")
	pingCmd.Flags().IntVarP(&PingArgs.interval, "interval", "i", pinger.DefaultIntervalMs, "Interval between echo requests (ms)")
	pingCmd.Flags().IntVarP(&PingArgs.timeout, "timeout", "", pinger.DefaultTimeoutMs, "Total time budget for the run (ms)")
	pingCmd.Flags().BoolVarP(&PingArgs.useRawSocket, "raw", "", false, "Use a raw socket instead of UDP (needs privilege)")
	pingCmd.Flags().BoolVarP(&PingArgs.verbose, "verbose", "v", false, "verbose")
	rootCmd.AddCommand(pingCmd)
}
