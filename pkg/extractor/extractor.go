// Package extractor converts raw log lines into typed records.
//
// A line is recognized by a fixed grammar:
//
//	<date> <host> <process>[<pid>]: time="<logTime>" level=<level> msg="<message>" file="<file>" component=<component> [pkg=<subcomponent>]
//
// Lines that do not match are dropped, never reported as errors.
package extractor

import (
	"regexp"
	"strings"

	"github.com/ccollicutt/logdocker/pkg/record"
)

// GrammarPattern is the regular expression for a recognized log line.
// Matching is anchored at the start; content after the last group is ignored.
const GrammarPattern = `^(?P<date>\w+\s+\d+\s+\d+:\d+:\d+)\s+` +
	`(?P<host>\w+)\s+` +
	`(?P<process>\w+)\[(?P<pid>\d+)\]:\s+` +
	`time="(?P<logTime>[^"]*)"\s+` +
	`level=(?P<level>\w+)\s+` +
	`msg="(?P<message>[^"]*)"\s+` +
	`file="(?P<file>[^"]*)"\s+` +
	`component="?(?P<component>(?:pkg="|[^"])+)"?` +
	`(?:\s+(?P<subcomponent>pkg=.*))?`

// subcomponentMarker separates a component from an embedded pkg= qualifier.
const subcomponentMarker = " pkg="

// Extractor matches lines against the grammar.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	re *regexp.Regexp

	// Submatch indices of the named groups
	date, host, process, pid, logTime int
	level, message, file              int
	component, subcomponent           int
}

// New creates an Extractor for the default grammar.
func New() *Extractor {
	re := regexp.MustCompile(GrammarPattern)
	return &Extractor{
		re:           re,
		date:         re.SubexpIndex("date"),
		host:         re.SubexpIndex("host"),
		process:      re.SubexpIndex("process"),
		pid:          re.SubexpIndex("pid"),
		logTime:      re.SubexpIndex("logTime"),
		level:        re.SubexpIndex("level"),
		message:      re.SubexpIndex("message"),
		file:         re.SubexpIndex("file"),
		component:    re.SubexpIndex("component"),
		subcomponent: re.SubexpIndex("subcomponent"),
	}
}

var defaultExtractor = New()

// Extract parses a single line with the default grammar.
func Extract(line string) (record.LogRecord, bool) {
	return defaultExtractor.Extract(line)
}

// Extract parses one line. A trailing newline is allowed.
// It returns false if the line does not match the grammar.
func (e *Extractor) Extract(line string) (record.LogRecord, bool) {
	loc := e.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return record.LogRecord{}, false
	}

	rawSub, captured := group(line, loc, e.subcomponent)
	component, subcomponent := SplitComponent(mustGroup(line, loc, e.component), rawSub, captured)

	return record.LogRecord{
		Date:         mustGroup(line, loc, e.date),
		Host:         mustGroup(line, loc, e.host),
		Process:      mustGroup(line, loc, e.process),
		PID:          mustGroup(line, loc, e.pid),
		LogTime:      mustGroup(line, loc, e.logTime),
		Level:        mustGroup(line, loc, e.level),
		Message:      mustGroup(line, loc, e.message),
		File:         mustGroup(line, loc, e.file),
		Component:    component,
		Subcomponent: subcomponent,
	}, true
}

// SplitComponent normalizes a raw component and an optional separately
// captured subcomponent into the cleaned (component, subcomponent) pair.
//
// If the component embeds " pkg=", it is split on the first occurrence and
// the remainder becomes the subcomponent, re-prefixed with "pkg=". The
// embedded form takes precedence over a separately captured value.
// Otherwise a captured subcomponent is cleaned and kept. An empty returned
// subcomponent means none was present.
func SplitComponent(rawComponent, rawSubcomponent string, captured bool) (string, string) {
	if before, after, found := strings.Cut(rawComponent, subcomponentMarker); found {
		return clean(before), clean("pkg=" + after)
	}

	component := clean(rawComponent)
	if !captured {
		return component, ""
	}
	return component, clean(rawSubcomponent)
}

// clean strips quote and newline characters and surrounding whitespace.
func clean(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "\n", "")
	return strings.TrimSpace(s)
}

// group returns the text of submatch i and whether it participated in the match.
func group(line string, loc []int, i int) (string, bool) {
	start, end := loc[2*i], loc[2*i+1]
	if start < 0 {
		return "", false
	}
	return line[start:end], true
}

func mustGroup(line string, loc []int, i int) string {
	s, _ := group(line, loc, i)
	return s
}
