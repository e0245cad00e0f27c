package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"honnef.co/go/id3"
	"honnef.co/go/id3/internal/frametext"
)

var (
	dump    = flag.Bool("dump", false, "dump the parsed tag instead of printing frame values")
	verbose = flag.Bool("v", false, "log while parsing")
)

func printFile(name string) {
	fmt.Println(name)
	f, err := os.Open(name)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	ok, err := id3.Check(r)
	if err != nil {
		fmt.Println(err)
		return
	}

	if !ok {
		log.Println("no ID3 tag")
		return
	}

	tag, err := id3.NewDecoder(r).Parse()
	if err != nil {
		fmt.Println(err)
		return
	}

	if *dump {
		spew.Dump(tag)
		return
	}

	h := tag.Header
	fmt.Printf("%s, flags %s, %d bytes, %d bytes of padding\n", h.Version, h.Flags, h.Size, tag.Padding)
	if x := tag.Extended; x != nil {
		fmt.Printf("Extended header: %d bytes, update %t", x.Size, x.Flags.Update())
		if x.Flags.CRC() {
			fmt.Printf(", CRC %08x", x.CRC)
		}
		if x.Flags.Restrictions() {
			fmt.Printf(", restrictions %08b", byte(x.Restrictions))
		}
		fmt.Println()
	}
	if tag.Footer != nil {
		fmt.Println("Footer present")
	}

	for _, frame := range tag.Frames {
		if frame.Flags != 0 {
			fmt.Printf("%s [%s]: %s\n", frame.ID.Name(), frame.Flags, frametext.Value(frame))
			continue
		}
		fmt.Printf("%s: %s\n", frame.ID.Name(), frametext.Value(frame))
	}
}

func main() {
	flag.Parse()
	id3.Logging = id3.LogFlag(*verbose)
	for _, name := range flag.Args() {
		printFile(name)
		fmt.Println()
	}
}
