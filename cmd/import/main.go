package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	catalogrepo "github.com/AlibekovAA/book-review/internal/catalog/repository"
	"github.com/AlibekovAA/book-review/internal/common/bootstrap"
	"github.com/AlibekovAA/book-review/internal/common/db"
	"github.com/AlibekovAA/book-review/internal/importer"
)

func main() {
	file := flag.String("file", "books.csv", "path to the isbn,title,author,year CSV file")
	skipHeader := flag.Bool("skip-header", false, "ignore the first row of the file")
	flag.Parse()

	if err := run(*file, *skipHeader); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, skipHeader bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	app, err := bootstrap.NewImportApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	imp := importer.New(importer.Deps{
		Tx:        db.NewPgTxManager(app.Pool),
		Books:     catalogrepo.NewPgRepository(app.Pool),
		BatchSize: app.Config.BatchSize,
		Log:       app.Log,
	})

	n, err := imp.Run(ctx, src, skipHeader)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d books from %s\n", n, path)
	return nil
}
