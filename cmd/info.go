package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfsplus/internal/partition"
	"github.com/deploymenttheory/go-hfsplus/pkg/hfsinspect"
)

var infoCmd = &cobra.Command{
	Use:   "info [image-path]",
	Short: "Summarize the volume header",
	Long: `Print the decoded HFS Plus/HFSX volume header: signature, version,
block size, total and free blocks, file and folder counts, next catalog
ID and write count, plus the partition scheme when one is detected.

Examples:
  # Summarize a disk image
  hfsinspect info disk.img

  # Summarize a raw device, assuming 2048-byte sectors
  hfsinspect info /dev/disk4 --block-size 2048`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInfo(args[0]); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(imagePath string) error {
	insp, err := hfsinspect.Open(imagePath, GetBlockSize(), GetConfig())
	if err != nil {
		return err
	}
	defer insp.Close()

	hdr := insp.VolumeHeader()

	fmt.Printf("Signature:        0x%04X\n", hdr.Signature)
	fmt.Printf("Version:          %d\n", hdr.Version)
	fmt.Printf("Block size:       %d\n", hdr.BlockSize)
	fmt.Printf("Total blocks:     %d\n", hdr.TotalBlocks)
	fmt.Printf("Free blocks:      %d\n", hdr.FreeBlocks)
	fmt.Printf("File count:       %d\n", hdr.FileCount)
	fmt.Printf("Folder count:     %d\n", hdr.FolderCount)
	fmt.Printf("Next catalog ID:  %d\n", hdr.NextCatalogID)
	fmt.Printf("Write count:      %d\n", hdr.WriteCount)

	if part := insp.Partitions(); part != nil {
		fmt.Printf("Partition scheme: %s\n", schemeName(part.Scheme))
	}

	return nil
}

func schemeName(s partition.Scheme) string {
	switch s {
	case partition.SchemeGPT:
		return "GPT"
	case partition.SchemeMBR:
		return "MBR"
	case partition.SchemeCoreStorage:
		return "Core Storage"
	case partition.SchemeAPM:
		return "Apple Partition Map"
	default:
		return "none"
	}
}
