package main


import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"oms-loadtest/core/configs"
	"oms-loadtest/protocol"
)


var encodeSequence int

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the bytes of one order as a hex dump",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var config *configs.Config
		var err error

		config, err = loadConfig(cmd, nil)
		if err != nil {
			return err
		}

		return dumpOrder(cmd.OutOrStdout(), config, encodeSequence,
			time.Now())
	},
}

func init() {
	encodeCmd.Flags().IntVarP(&encodeSequence, "sequence", "s", 0,
		"sequence number of the order")

	rootCmd.AddCommand(encodeCmd)
}

func dumpOrder(dest io.Writer, config *configs.Config, sequence int, now time.Time) error {
	var template protocol.OrderTemplate = config.OrderTemplate()
	var order *protocol.Order
	var data []byte

	if sequence < 0 {
		return fmt.Errorf("invalid sequence %d", sequence)
	}

	order = template.NewOrder(sequence, config.Order.UserId, now)
	data = order.Encode()

	fmt.Fprintf(dest, "transaction code %s, %d bytes\n",
		order.TransactionCode, len(data))
	fmt.Fprint(dest, hex.Dump(data))

	return nil
}
