package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BurkeyCode/routecheck/log"
	"github.com/BurkeyCode/routecheck/runner"
	"github.com/BurkeyCode/routecheck/trace"
)

type args struct {
	gateways       []string
	maxTTL         int
	timeout        int
	verbose        bool
	jsonOutput     bool
	autoGateway    bool
	sourcePublicIP bool
}

var Args args

// errDestinationUnreachable signals that the trace completed but the
// destination never replied. It maps to its own exit status.
var errDestinationUnreachable = errors.New("destination did not reply")

var rootCmd = &cobra.Command{
	Use:   "routecheck [destination]",
	Short: "Check which gateways lie on the path to a destination",
	Long: `routecheck verifies that a destination answers echo probes and reports
which of the given gateways were observed forwarding on the path to it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, posArgs []string) error {
		log.SetVerbose(Args.verbose)

		var destination string
		if len(posArgs) > 0 {
			destination = posArgs[0]
		}

		params := runner.Params{
			Destination:           destination,
			Gateways:              Args.gateways,
			MaxHops:               Args.maxTTL,
			Timeout:               time.Duration(Args.timeout) * time.Millisecond,
			AutoGateway:           Args.autoGateway,
			CollectSourcePublicIP: Args.sourcePublicIP,
		}

		results, err := runner.NewRouteCheck().Run(cmd.Context(), params)
		if err != nil {
			return err
		}

		if Args.jsonOutput {
			jsonStr, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("JSON marshalling failed: %v", err)
			}
			fmt.Println(string(jsonStr))
		} else {
			for _, line := range results.Trace.Report() {
				fmt.Println(line)
			}
		}

		if !results.Trace.Destination.Responded {
			return errDestinationUnreachable
		}
		return nil
	},
}

// Exit statuses, kept stable for callers that script around the tool.
const (
	exitOK                 = 0
	exitFailure            = 1
	exitInvalidDestination = 2
	exitProbeResource      = 3
	exitUnreachable        = 4
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errDestinationUnreachable) {
		return exitUnreachable
	}
	switch runner.ClassifyError(err).Code {
	case runner.ErrCodeInvalidRequest:
		return exitInvalidDestination
	case runner.ErrCodeDenied:
		return exitProbeResource
	default:
		return exitFailure
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.Flags().StringArrayVarP(&Args.gateways, "gateway", "g", nil, "Gateway to check for, as LABEL=IP or a bare IP (repeatable)")
	rootCmd.Flags().IntVarP(&Args.maxTTL, "max-ttl", "m", trace.DefaultMaxHops, "Maximum TTL")
	rootCmd.Flags().IntVarP(&Args.timeout, "timeout", "", 0, "Timeout per probe (ms)")
	rootCmd.Flags().BoolVarP(&Args.verbose, "verbose", "v", false, "verbose")
	rootCmd.Flags().BoolVarP(&Args.jsonOutput, "json", "j", false, "Print results as JSON instead of report lines")
	rootCmd.Flags().BoolVarP(&Args.autoGateway, "auto-gateway", "", false, "Also check the system's default gateways (Linux only)")
	rootCmd.Flags().BoolVarP(&Args.sourcePublicIP, "source-public-ip", "", false, "Annotate results with the probing host's public IP")
}
