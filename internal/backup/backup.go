// Package backup archives and restores the SOMMIA data directory: the
// cellar database plus an optional config file, packed as tar.gz.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// Backup writes a tar.gz archive of the cellar database and, when given,
// the config file. The WAL is checkpointed first so the copied database
// file is self-contained without its -wal sidecar.
func Backup(_ context.Context, dbPath, configPath, outputPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("cellar database not found: %w", err)
	}

	if err := flushWAL(dbPath); err != nil {
		return fmt.Errorf("checkpoint before backup: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	defer gw.Close()

	tw := tar.NewWriter(gw)
	defer tw.Close()

	if err := archiveFile(tw, dbPath); err != nil {
		return fmt.Errorf("archive database: %w", err)
	}

	// The config file is optional; a defaults-only deployment backs up
	// just the database.
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := archiveFile(tw, configPath); err != nil {
				return fmt.Errorf("archive config: %w", err)
			}
		}
	}

	return nil
}

// flushWAL opens the database and truncates the write-ahead log so every
// committed wine and session row lands in the main file before it is copied.
func flushWAL(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// archiveFile stores one file in the archive under its base name, so a
// restore into any data directory reproduces the flat layout.
func archiveFile(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(path)

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}
