package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"mapstate/internal/adapter/archive"
	"mapstate/internal/adapter/repo"
	"mapstate/internal/platform/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "export":
		exportCmd(os.Args[2:])
	case "import":
		importCmd(os.Args[2:])
	case "inspect":
		inspectCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin export -out FILE | import -in FILE [-yes] | inspect -in FILE")
}

func openStore(ctx context.Context) (repo.Backend, archive.Store) {
	var cfg config.Store
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	backend, err := repo.Open(ctx, cfg, log.New(os.Stderr, "", log.LstdFlags))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open house store:", err)
		os.Exit(1)
	}
	return backend, archive.Store{
		TxManager:  backend.TxManager,
		TileStore:  backend.TileStore,
		Houses:     backend.Houses,
		HouseLists: backend.HouseLists,
	}
}

func exportCmd(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	outPath := fs.String("out", "", "archive path to write (.jsonl.zst)")
	_ = fs.Parse(args)
	if strings.TrimSpace(*outPath) == "" {
		fmt.Fprintln(os.Stderr, "missing -out")
		os.Exit(2)
	}

	ctx := context.Background()
	backend, store := openStore(ctx)
	defer backend.Close()

	snap, err := store.Export(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
	if err := archive.WriteFile(*outPath, snap); err != nil {
		fmt.Fprintln(os.Stderr, "write:", err)
		os.Exit(1)
	}
	fmt.Printf("exported houses=%d lists=%d tiles=%d to %s\n", len(snap.Houses), len(snap.Lists), len(snap.Tiles), *outPath)
}

func importCmd(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	inPath := fs.String("in", "", "archive path to read (.jsonl.zst)")
	yes := fs.Bool("yes", false, "replace the stored house items and lists")
	_ = fs.Parse(args)
	if strings.TrimSpace(*inPath) == "" {
		fmt.Fprintln(os.Stderr, "missing -in")
		os.Exit(2)
	}
	if !*yes {
		fmt.Fprintln(os.Stderr, "import replaces every stored house item and access list; rerun with -yes")
		os.Exit(2)
	}

	snap, err := archive.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend, store := openStore(ctx)
	defer backend.Close()

	if err := store.Import(ctx, snap); err != nil {
		fmt.Fprintln(os.Stderr, "import:", err)
		os.Exit(1)
	}
	fmt.Printf("imported houses=%d lists=%d tiles=%d from %s (created %s)\n",
		len(snap.Houses), len(snap.Lists), len(snap.Tiles), *inPath, snap.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
}

func inspectCmd(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	inPath := fs.String("in", "", "archive path to read (.jsonl.zst)")
	_ = fs.Parse(args)
	if strings.TrimSpace(*inPath) == "" {
		fmt.Fprintln(os.Stderr, "missing -in")
		os.Exit(2)
	}

	snap, err := archive.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	tilesByHouse := map[uint32]int{}
	bytesByHouse := map[uint32]int{}
	for _, t := range snap.Tiles {
		tilesByHouse[t.HouseID]++
		bytesByHouse[t.HouseID] += len(t.Data)
	}
	fmt.Printf("created %s\n", snap.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	for _, h := range snap.Houses {
		fmt.Printf("house %d %q owner=%d new_owner=%d tiles=%d bytes=%d\n",
			h.ID, h.Name, h.Owner, h.NewOwner, tilesByHouse[h.ID], bytesByHouse[h.ID])
	}
}
