package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfsplus/internal/partition"
	"github.com/deploymenttheory/go-hfsplus/pkg/hfsinspect"
)

var partitionsCmd = &cobra.Command{
	Use:   "partitions [image-path]",
	Short: "Show the partition scheme detected ahead of the volume",
	Long: `Probe image-path for a GPT, MBR, Core Storage, or Apple Partition Map
and print every entry found, along with the content hint used to pick
which one is attached as the HFS Plus volume.

Examples:
  hfsinspect partitions disk.img`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPartitions(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(partitionsCmd)
}

func runPartitions(imagePath string) error {
	insp, err := hfsinspect.Open(imagePath, GetBlockSize(), GetConfig())
	if err != nil {
		return err
	}
	defer insp.Close()

	res := insp.Partitions()
	if res == nil {
		fmt.Println("no partition table detected; treated as a bare volume")
		return nil
	}

	fmt.Printf("Scheme: %s\n", schemeName(res.Scheme))
	for _, e := range res.Entries {
		fmt.Printf("  [%d] offset=%-12d length=%-12d hint=%-12s %s\n",
			e.Index, e.Offset, e.Length, hintName(e.Hint), e.Name)
	}
	return nil
}

func hintName(h partition.Hint) string {
	switch h {
	case partition.HintHFS:
		return "hfs"
	case partition.HintCoreStorage:
		return "corestorage"
	case partition.HintEFI:
		return "efi"
	case partition.HintFreeSpace:
		return "free"
	case partition.HintIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}
