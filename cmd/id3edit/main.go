package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"honnef.co/go/id3"
)

func main() {
	scriptPath := flag.String("script", "edits.yaml", "path to the YAML edit script")
	dryRun := flag.Bool("n", false, "validate and apply, but don't write the file")
	flag.BoolVar((*bool)(&id3.Logging), "v", false, "log structural edits")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: id3edit [-script edits.yaml] [-n] [-v] FILE")
	}
	name := flag.Arg(0)

	script, err := LoadScript(*scriptPath)
	if err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}
	if err := script.Validate(); err != nil {
		log.Fatalf("Invalid script: %v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		log.Fatal(err)
	}

	tag, audio, err := id3.Split(data)
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}

	tag, err = script.Apply(tag)
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}

	if *dryRun {
		log.Printf("%s: new tag is %d bytes", name, len(tag))
		return
	}

	if err := writeFile(name, tag, audio); err != nil {
		log.Fatal(err)
	}
}

// writeFile replaces name atomically with tag followed by audio.
func writeFile(name string, tag, audio []byte) error {
	fi, err := os.Stat(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), ".id3edit-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(tag); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(fi.Mode()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
