// cmd/trim.go

package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"SeqPipe/pkg/fastq"
	"SeqPipe/pkg/sched"
	"SeqPipe/pkg/streams"
	"SeqPipe/pkg/trim"
	"SeqPipe/pkg/utils"
	"SeqPipe/pkg/version"
)

func trimFlags() *cli.Command {
	return &cli.Command{
		Name:   "trim",
		Usage:  "trim low-quality tails from single or paired-end FASTQ files",
		Action: trimAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file1",
				Aliases:  []string{"1"},
				Usage:    "mate 1 input FASTQ (- for stdin; .gz/.zst supported)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "file2",
				Aliases: []string{"2"},
				Usage:   "mate 2 input FASTQ; enables paired-end mode",
			},
			&cli.StringFlag{
				Name:  "output1",
				Usage: "mate 1 output file (default <prefix>.pair1.fq.gz)",
			},
			&cli.StringFlag{
				Name:  "output2",
				Usage: "mate 2 output file (default <prefix>.pair2.fq.gz)",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Value: "seqpipe",
				Usage: "basename for default output files",
			},
			&cli.IntFlag{
				Name:    "threads",
				Aliases: []string{"p"},
				Value:   runtime.NumCPU(),
				Usage:   "number of worker threads",
			},
			&cli.IntFlag{
				Name:  "batch-lines",
				Value: fastq.DefaultBatchLines,
				Usage: "lines read per chunk (multiple of 4)",
			},
			&cli.IntFlag{
				Name:  "quality-cutoff",
				Value: trim.DefaultQualityCutoff,
				Usage: "trim 3' bases with Phred quality at or below this (-1 disables)",
			},
			&cli.IntFlag{
				Name:  "max-chunks",
				Usage: "max chunks in flight; bounds memory (default threads*2+4)",
			},
			&cli.Int64Flag{
				Name:  "bwlimit",
				Usage: "input bandwidth limit in MiB/s",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "show a progress bar while writing",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "write a JSON run report to this file",
			},
		},
	}
}

type trimReport struct {
	RunID    string
	Version  string
	Mode     string
	Inputs   []string
	Outputs  []string
	Records  int64
	BasesIn  int64
	BasesOut int64
	Elapsed  float64
	UserCPU  float64
	SysCPU   float64
}

func trimAction(c *cli.Context) error {
	setLoggerLevel(c)
	paired := c.String("file2") != ""
	bwlimit := c.Int64("bwlimit") << 20

	inputs := []string{c.String("file1")}
	if paired {
		inputs = append(inputs, c.String("file2"))
	}
	outputs := []string{c.String("output1"), c.String("output2")}
	if outputs[0] == "" {
		outputs[0] = streams.OutputPath(c.String("prefix"), fastq.Mate1, paired)
	}
	if outputs[1] == "" {
		outputs[1] = streams.OutputPath(c.String("prefix"), fastq.Mate2, paired)
	}
	if !paired {
		outputs = outputs[:1]
	}

	var readers, writers []sched.Step
	var fwriters []*fastq.Writer
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Errorf("close: %s", err)
			}
		}
	}()

	for m := fastq.Mate1; m < fastq.MateCount; m++ {
		if int(m) >= len(inputs) {
			break
		}
		in, err := streams.OpenInput(inputs[m])
		if err != nil {
			return err
		}
		closers = append(closers, in)
		r, err := fastq.NewReader(streams.WithRateLimit(in, bwlimit), m, c.Int("batch-lines"))
		if err != nil {
			return err
		}
		readers = append(readers, r)

		if utils.Exists(outputs[m]) {
			logger.Warnf("overwriting %s", outputs[m])
		}
		out, err := streams.CreateOutput(outputs[m])
		if err != nil {
			return err
		}
		closers = append(closers, out)
		// progress on the mate 1 writer only; two bars would fight over
		// the terminal
		w, err := fastq.NewWriter(out, m, c.Bool("progress") && m == fastq.Mate1)
		if err != nil {
			return err
		}
		fwriters = append(fwriters, w)
		writers = append(writers, w)
	}

	step := trim.New(trim.Options{
		Paired:        paired,
		QualityCutoff: c.Int("quality-cutoff"),
	})

	maxChunks := c.Int("max-chunks")
	if maxChunks <= 0 {
		maxChunks = c.Int("threads")*2 + 4
	}
	pipe := &sched.Pipeline{
		Readers: readers,
		Workers: []sched.Step{step},
		Writers: writers,
		Threads: c.Int("threads"),
		Pool:    fastq.NewPool(maxChunks),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := utils.Now()
	runErr := pipe.Run(ctx)
	for _, w := range fwriters {
		if err := w.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return runErr
	}

	st := step.Stats()
	ru := utils.GetRusage()
	used := utils.Now().Sub(start)
	logger.Infof("processed %d records in %.1fs (%.1fs user, %.1fs sys)",
		st.Records, used.Seconds(), ru.GetUtime(), ru.GetStime())

	if path := c.String("report"); path != "" {
		mode := "single-end"
		if paired {
			mode = "paired-end"
		}
		report := trimReport{
			RunID:    uuid.New().String(),
			Version:  version.Version(),
			Mode:     mode,
			Inputs:   inputs,
			Outputs:  outputs,
			Records:  st.Records,
			BasesIn:  st.BasesIn,
			BasesOut: st.BasesOut,
			Elapsed:  used.Seconds(),
			UserCPU:  ru.GetUtime(),
			SysCPU:   ru.GetStime(),
		}
		data, err := json.MarshalIndent(&report, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return err
		}
	}
	return nil
}
