// cmd/info.go

package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"SeqPipe/pkg/fastq"
	"SeqPipe/pkg/streams"
)

func infoFlags() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "show record and base counts of FASTQ files",
		ArgsUsage: "FILE ...",
		Action:    info,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "batch-lines",
				Value: fastq.DefaultBatchLines,
				Usage: "lines read per chunk",
			},
		},
	}
}

type fileInfo struct {
	File    string
	Lines   int64
	Records int64
	Bases   int64
}

func printJson(v interface{}) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatalf("json: %s", err)
	}
	fmt.Println(string(output))
}

func info(c *cli.Context) error {
	setLoggerLevel(c)
	if c.Args().Len() < 1 {
		return fmt.Errorf("FILE is needed")
	}

	infos := make([]*fileInfo, 0, c.Args().Len())
	for i := 0; i < c.Args().Len(); i++ {
		path := c.Args().Get(i)
		fi, err := scanFile(path, c.Int("batch-lines"))
		if err != nil {
			return err
		}
		infos = append(infos, fi)
	}
	printJson(infos)
	return nil
}

func scanFile(path string, batchLines int) (*fileInfo, error) {
	in, err := streams.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	r, err := fastq.NewReader(in, fastq.Mate1, batchLines)
	if err != nil {
		return nil, err
	}

	fi := &fileInfo{File: path}
	var chunk fastq.Chunk
	for {
		if err := r.Process(&chunk); err != nil {
			return nil, err
		}
		lines := chunk.Mates[fastq.Mate1]
		if len(lines) == 0 {
			break
		}
		fi.Lines += int64(len(lines))
		for j := 1; j < len(lines); j += 4 {
			fi.Bases += int64(len(lines[j]))
		}
	}
	fi.Records = fi.Lines / 4
	return fi, nil
}
