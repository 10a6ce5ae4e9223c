package catalog

import (
	"fmt"
	"io"
	"sort"
)

// Summary counts the outcome of a scan.
type Summary struct {
	Files        int
	Maps         int
	Errors       int
	Duplicates   int
	Environments map[string]int
}

// Summarize tallies rows.
func Summarize(rows []Row) Summary {
	s := Summary{Files: len(rows), Environments: map[string]int{}}
	for _, r := range rows {
		switch {
		case r.Error != "":
			s.Errors++
			continue
		case r.Duplicate:
			s.Duplicates++
		}
		if r.Map {
			s.Maps++
			s.Environments[r.Environment.String()]++
		}
	}
	return s
}

// Write prints the summary the way batch reports it on stderr.
func (s Summary) Write(w io.Writer) {
	fmt.Fprintf(w, "batch: %d files, %d maps, %d errors, %d duplicates\n",
		s.Files, s.Maps, s.Errors, s.Duplicates)
	envs := make([]string, 0, len(s.Environments))
	for e := range s.Environments {
		envs = append(envs, e)
	}
	sort.Strings(envs)
	for _, e := range envs {
		fmt.Fprintf(w, "  %-10s %d\n", e, s.Environments[e])
	}
}
