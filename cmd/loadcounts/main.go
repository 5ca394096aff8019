// loadcounts initializes the sqlite store and loads an immune-cell counts
// file into it from scratch. Both tables are truncated and recreated on every
// run; loading the same file twice yields identical contents.
package main

import (
	"bytes"
	"flag"
	"io"
	"log"
	"os"

	"github.com/carbocation/pfx"

	"github.com/loblawbio/cellscope"
	"github.com/loblawbio/cellscope/countcsv"
	"github.com/loblawbio/cellscope/countdb"
)

func main() {
	var input, dbPath string
	flag.StringVar(&input, "input", "", "Counts file: delimited text with a header row and one row per sample. Comma or tab delimited; may be gzip, zip, xz, zlib, or bzip2 compressed.")
	flag.StringVar(&dbPath, "db", "cell_data.db", "Path to the sqlite database. Created if it does not yet exist; its tables are dropped and reloaded.")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		return
	}

	input = cellscope.ExpandHome(input)

	f, err := os.Open(input)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	defer f.Close()

	rc, err := cellscope.MaybeDecompress(f)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	defer rc.Close()

	// The input is bounded, so read it fully: the delimiter detector and the
	// CSV reader each need their own pass.
	data, err := io.ReadAll(rc)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	delim := cellscope.DetermineDelimiter(bytes.NewReader(data))
	log.Printf("Determined delimiter of %s to be %q\n", input, delim)

	rows, err := countcsv.ReadAll(bytes.NewReader(data), delim)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	log.Printf("Parsed %d sample observations\n", len(rows))

	db, err := countdb.Open(dbPath)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	defer db.Close()

	if err := countdb.CreateTables(db); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	if err := countdb.Load(db, rows); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	var subjects, samples int
	if err := db.Get(&subjects, "SELECT COUNT(*) FROM subjects"); err != nil {
		log.Fatalln(pfx.Err(err))
	}
	if err := db.Get(&samples, "SELECT COUNT(*) FROM samples"); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	log.Printf("Loaded %d subjects and %d samples into %s\n", subjects, samples, dbPath)
}
