package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vindex/internal/vin"
)

var (
	vinDecodeJSON bool

	genWMI    string
	genVDS    string
	genYear   int
	genPlant  string
	genSerial string
)

var vinCmd = &cobra.Command{
	Use:   "vin",
	Short: "VIN validation, decoding and generation",
}

var vinValidateCmd = &cobra.Command{
	Use:   "validate [vin]",
	Short: "Check a VIN's format and check digit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if vin.IsValid(args[0]) {
			fmt.Println("valid")
		} else {
			fmt.Println("invalid")
		}
		return nil
	},
}

var vinCheckCmd = &cobra.Command{
	Use:   "check [vin]",
	Short: "Print the ISO 3779 check digit for a 17-character VIN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cd, err := vin.CheckDigit(vin.Normalize(args[0]))
		if err != nil {
			return err
		}
		fmt.Println(cd)
		return nil
	},
}

var vinDecodeCmd = &cobra.Command{
	Use:   "decode [vin]",
	Short: "Decode a VIN's structural fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := vin.Decode(args[0])
		if vinDecodeJSON {
			out, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		printDecoded(d)
		return nil
	},
}

var vinGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Assemble a valid VIN from its components",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vin.Generate(genWMI, genVDS, genYear, genPlant, genSerial)
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

func init() {
	vinDecodeCmd.Flags().BoolVar(&vinDecodeJSON, "json", false, "output as JSON")

	vinGenerateCmd.Flags().StringVar(&genWMI, "wmi", "", "world manufacturer identifier (3 chars)")
	vinGenerateCmd.Flags().StringVar(&genVDS, "vds", "", "vehicle descriptor section (5 chars)")
	vinGenerateCmd.Flags().IntVar(&genYear, "year", 0, "model year (1980-2039)")
	vinGenerateCmd.Flags().StringVar(&genPlant, "plant", "", "plant code (1 char)")
	vinGenerateCmd.Flags().StringVar(&genSerial, "serial", "", "serial number (6 chars)")
	_ = vinGenerateCmd.MarkFlagRequired("wmi")
	_ = vinGenerateCmd.MarkFlagRequired("year")

	vinCmd.AddCommand(vinValidateCmd, vinCheckCmd, vinDecodeCmd, vinGenerateCmd)
	rootCmd.AddCommand(vinCmd)
}

func printDecoded(d vin.Decoded) {
	fmt.Printf("vin:         %s\n", d.VIN)
	fmt.Printf("valid:       %t\n", d.Valid)
	fmt.Printf("wmi:         %s\n", d.WMI)
	fmt.Printf("vds:         %s\n", d.VDS)
	fmt.Printf("vis:         %s\n", d.VIS)
	fmt.Printf("check digit: %s (%s)\n", d.CheckDigit, checkDigitState(d))
	if d.ModelYearCode != "" {
		fmt.Printf("model year:  %s -> %s (candidates %v)\n", d.ModelYearCode, yearOrUnknown(d.ModelYear), d.ModelYearCandidates)
	}
	if d.PlantCode != "" {
		fmt.Printf("plant:       %s\n", d.PlantCode)
	}
	if d.SerialNumber != "" {
		fmt.Printf("serial:      %s\n", d.SerialNumber)
	}
	if d.Region != "" {
		fmt.Printf("region:      %s\n", d.Region)
	}
	if d.Brand != "" {
		fmt.Printf("brand:       %s\n", d.Brand)
	}
	if len(d.Notes) > 0 {
		fmt.Printf("notes:       %s\n", strings.Join(d.Notes, "; "))
	}
}

func checkDigitState(d vin.Decoded) string {
	switch {
	case d.CheckDigitValid == nil:
		return "unknown"
	case *d.CheckDigitValid:
		return "ok"
	default:
		return "mismatch"
	}
}

func yearOrUnknown(year int) string {
	if year == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d", year)
}
