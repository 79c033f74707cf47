package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
)

//
// Suspend the caller for a number of 1/60-s ticks.  Sub-second
// precision comes for free from the runtime timer
//

func sleepTicks(ticks float64) {

	if ticks <= 0 {
		return
	}

	time.Sleep(time.Duration(ticks * float64(time.Second) / ticksPerSecond))
}

//
// Print a fatal message and abort the process.  Writes to standard
// error, since standard output may have been redirected
//

func crash(msg string) {

	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	os.Exit(1)
}

//
// Runtime statistics for an executing program
//

type runStats struct {
	elapsed time.Time
	utime   int64
	stime   int64
}

func initClock() *runStats {

	st := &runStats{elapsed: time.Now()}
	st.utime, st.stime = getCPUInfo()

	return st
}

func (st *runStats) printStatistics(numStatements int64) {

	elapsed := time.Since(st.elapsed)
	utime, stime := getCPUInfo()

	fmt.Printf("CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-st.utime), formatCPUTime(stime-st.stime))

	fmt.Printf("%d %s executed\n", numStatements,
		pluralize("statement", numStatements))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// CPU time for this process in seconds, from /proc/self/stat scaled
// by the clock tick rate
//

func getCPUInfo() (int64, int64) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || clktck <= 0 {
		return 0, 0
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0, 0
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0
	}

	return utime / clktck, stime / clktck
}

//
// Oddity: 0 is considered plural
//

func pluralize(str string, num int64) string {

	if num != 1 {
		str += "s"
	}

	return str
}
