/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package config describes the output destinations and formatting
// options for a Logger: stdout/stderr and rotated log files.
package config

import (
	"fmt"
	"os"
)

// OptionsStd controls the stdout/stderr sink.
type OptionsStd struct {
	DisableStandard  bool `json:"disableStandard,omitempty" yaml:"disableStandard,omitempty"`
	DisableStack     bool `json:"disableStack,omitempty" yaml:"disableStack,omitempty"`
	DisableTimestamp bool `json:"disableTimestamp,omitempty" yaml:"disableTimestamp,omitempty"`
	EnableTrace      bool `json:"enableTrace,omitempty" yaml:"enableTrace,omitempty"`
	DisableColor     bool `json:"disableColor,omitempty" yaml:"disableColor,omitempty"`
}

func (o *OptionsStd) Clone() *OptionsStd {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

// OptionsFile describes one rotated log file sink, filtered to a subset
// of levels.
type OptionsFile struct {
	LogLevel         []string    `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	Filepath         string      `json:"filepath,omitempty" yaml:"filepath,omitempty"`
	Create           bool        `json:"create,omitempty" yaml:"create,omitempty"`
	CreatePath       bool        `json:"createPath,omitempty" yaml:"createPath,omitempty"`
	FileMode         os.FileMode `json:"fileMode,omitempty" yaml:"fileMode,omitempty"`
	PathMode         os.FileMode `json:"pathMode,omitempty" yaml:"pathMode,omitempty"`
	DisableStack     bool        `json:"disableStack,omitempty" yaml:"disableStack,omitempty"`
	DisableTimestamp bool        `json:"disableTimestamp,omitempty" yaml:"disableTimestamp,omitempty"`
	EnableTrace      bool        `json:"enableTrace,omitempty" yaml:"enableTrace,omitempty"`
	FileBufferSize   int         `json:"fileBufferSize,omitempty" yaml:"fileBufferSize,omitempty"`
}

func (o OptionsFile) Clone() OptionsFile {
	c := o
	c.LogLevel = append([]string(nil), o.LogLevel...)
	return c
}

type OptionsFiles []OptionsFile

func (o OptionsFiles) Clone() OptionsFiles {
	c := make(OptionsFiles, 0, len(o))
	for _, f := range o {
		c = append(c, f.Clone())
	}
	return c
}

type FuncOpt func() *Options

// Options is the full logger configuration: one optional stdout sink
// plus any number of file sinks.
type Options struct {
	InheritDefault bool         `json:"inheritDefault" yaml:"inheritDefault"`
	TraceFilter    string       `json:"traceFilter,omitempty" yaml:"traceFilter,omitempty"`
	Stdout         *OptionsStd  `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	LogFileExtend  bool         `json:"logFileExtend,omitempty" yaml:"logFileExtend,omitempty"`
	LogFile        OptionsFiles `json:"logFile,omitempty" yaml:"logFile,omitempty"`

	opts FuncOpt
}

func (o *Options) RegisterDefaultFunc(fct FuncOpt) {
	o.opts = fct
}

// Validate checks field-level constraints a full validator library
// would otherwise enforce: a file sink needs a path. Level names are
// not checked.
func (o *Options) Validate() error {
	var errs []string

	for i, f := range o.LogFile {
		if f.Filepath == "" {
			errs = append(errs, fmt.Sprintf("logFile[%d]: filepath is required", i))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid logger options: %v", errs)
}

func (o *Options) Clone() Options {
	return Options{
		InheritDefault: o.InheritDefault,
		TraceFilter:    o.TraceFilter,
		Stdout:         o.Stdout.Clone(),
		LogFileExtend:  o.LogFileExtend,
		LogFile:        o.LogFile.Clone(),
	}
}

func (o *Options) Merge(opt *Options) {
	if opt == nil {
		return
	}
	if opt.TraceFilter != "" {
		o.TraceFilter = opt.TraceFilter
	}
	if opt.Stdout != nil {
		if o.Stdout == nil {
			o.Stdout = &OptionsStd{}
		}
		osd := *opt.Stdout
		o.Stdout = &osd
	}
	if opt.LogFileExtend {
		o.LogFile = append(o.LogFile, opt.LogFile...)
	} else {
		o.LogFile = opt.LogFile
	}
	if opt.opts != nil {
		o.opts = opt.opts
	}
}

// Options resolves the inheritance chain, producing the concrete
// configuration a Logger should apply.
func (o *Options) Options() *Options {
	var no Options
	if o.opts != nil && o.InheritDefault {
		no = *o.opts()
	}
	if o.TraceFilter != "" {
		no.TraceFilter = o.TraceFilter
	}
	if o.Stdout != nil {
		no.Stdout = o.Stdout.Clone()
	}
	if o.LogFileExtend {
		no.LogFile = append(no.LogFile, o.LogFile...)
	} else {
		no.LogFile = o.LogFile
	}
	return &no
}

// Default returns the baseline configuration used when no caller
// supplies an explicit one: trace-enabled stdout only, no file sinks.
func Default() *Options {
	return &Options{
		Stdout: &OptionsStd{
			EnableTrace: true,
		},
	}
}
