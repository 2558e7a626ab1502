// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// avrisp programs an AVR target over an FT232R/FT245R synchronous
// bit-bang ISP or TPI session.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/nomakewan/avrdude/avrpart"
	"github.com/nomakewan/avrdude/ft245r"
)

var parts = map[string]*avrpart.Part{
	"atmega328p": avrpart.ATmega328P,
	"attiny104":  avrpart.ATtiny104,
}

func partNames() []string {
	names := make([]string, 0, len(parts))
	for n := range parts {
		names = append(names, n)
	}
	return names
}

func readFlash(pgm *ft245r.Programmer, part *avrpart.Part, path string) error {
	out := make([]byte, part.FlashPageSize*part.FlashPages)
	if _, err := pgm.PagedLoad("flash", 0, len(out), out); err != nil {
		return err
	}
	return ioutil.WriteFile(path, out, 0644)
}

func writeFlash(pgm *ft245r.Programmer, part *avrpart.Part, path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = pgm.PagedWrite("flash", 0, len(data), data)
	return err
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	port := flag.String("port", "usb:", "programmer port, usb:ft<N> or usb:<serial>")
	partName := flag.String("part", "atmega328p", fmt.Sprintf("target part, one of %v", partNames()))
	erase := flag.Bool("erase", false, "chip erase before any write")
	readFlashPath := flag.String("read-flash", "", "read flash into this file")
	writeFlashPath := flag.String("write-flash", "", "write this file into flash")
	tpi := flag.Bool("tpi", false, "force TPI protocol regardless of the part table")

	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	part, ok := parts[*partName]
	if !ok {
		return fmt.Errorf("unknown part %q, try -help", *partName)
	}
	if *readFlashPath != "" && *writeFlashPath != "" {
		return errors.New("-read-flash and -write-flash are mutually exclusive")
	}
	if *tpi && !part.IsTPI {
		forced := *part
		forced.IsTPI = true
		part = &forced
	}

	opt := ft245r.DefaultOptions()
	pgm := ft245r.New(part, opt)
	if err := pgm.Open(*port); err != nil {
		return err
	}
	defer func() {
		if err := pgm.Close(); err != nil {
			log.Printf("avrisp: close: %v", err)
		}
	}()

	log.Printf("avrisp: %s", pgm.Display())
	if err := pgm.Enable(); err != nil {
		return err
	}
	defer func() {
		if err := pgm.Disable(); err != nil {
			log.Printf("avrisp: disable: %v", err)
		}
	}()

	if err := pgm.Initialize(); err != nil {
		return err
	}

	if *erase {
		if err := pgm.ChipErase(); err != nil {
			return err
		}
	}
	if *writeFlashPath != "" {
		if err := writeFlash(pgm, part, *writeFlashPath); err != nil {
			return err
		}
	}
	if *readFlashPath != "" {
		if err := readFlash(pgm, part, *readFlashPath); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "avrisp: %s.\n", err)
		os.Exit(1)
	}
}
