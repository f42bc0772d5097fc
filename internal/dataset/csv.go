package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"carprice/internal/fileutil"
)

// ReadCSV loads a CSV file with a header row into a frame. Records with a
// cell count different from the header abort the load; the batch pipeline
// never commits partial output.
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header %s: %w", path, err)
	}

	frame := New(header...)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record %s: %w", path, err)
		}
		if err := frame.AppendRow(rec); err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
	}
	return frame, nil
}

// WriteCSV writes the frame with its header row. The file is written to a
// temporary sibling and renamed into place so reruns overwrite atomically.
func WriteCSV(frame *Frame, path string) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		if err := writer.Write(frame.Columns()); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		for i := 0; i < frame.Len(); i++ {
			if err := writer.Write(frame.Row(i)); err != nil {
				return fmt.Errorf("write csv row %d: %w", i, err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
		return nil
	})
}
