// Package export writes converted puzzles to Parquet for offline
// analysis.
package export

import (
	"fmt"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/lgbarn/puzzle-study-go/internal/notation"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
)

// Record is one converted puzzle.
type Record struct {
	ID       string   `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8" json:"id"`
	Rating   int32    `parquet:"name=rating, type=INT32" json:"rating"`
	FEN      string   `parquet:"name=fen, type=BYTE_ARRAY, convertedtype=UTF8" json:"fen"`
	Themes   []string `parquet:"name=themes, type=LIST, valuetype=BYTE_ARRAY, valueconvertedtype=UTF8" json:"themes"`
	Tokens   []string `parquet:"name=tokens, type=LIST, valuetype=BYTE_ARRAY, valueconvertedtype=UTF8" json:"tokens"`
	FinalFEN string   `parquet:"name=final_fen, type=BYTE_ARRAY, convertedtype=UTF8" json:"finalFen"`
}

// NewRecord encodes the puzzle's solution and replays the tokens to
// find the position after the last move.
func NewRecord(p puzzle.Puzzle) (Record, error) {
	if err := p.Validate(); err != nil {
		return Record{}, err
	}
	tokens, err := notation.Encode(p.FEN, p.Solution)
	if err != nil {
		return Record{}, fmt.Errorf("encoding puzzle %s: %w", p.ID, err)
	}
	final, err := notation.DecodeFrom(p.FEN, strings.Join(tokens, " "))
	if err != nil {
		return Record{}, fmt.Errorf("replaying puzzle %s: %w", p.ID, err)
	}
	return Record{
		ID:       p.ID,
		Rating:   int32(p.Rating),
		FEN:      p.FEN,
		Themes:   p.Themes,
		Tokens:   tokens,
		FinalFEN: final,
	}, nil
}

// WriteParquet writes records to path with Snappy compression.
func WriteParquet(path string, records []Record, parallel int64) error {
	if parallel < 1 {
		parallel = 1
	}

	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(Record), parallel)
	if err != nil {
		return err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, record := range records {
		if err := parquetWriter.Write(record); err != nil {
			return fmt.Errorf("writing record %s: %w", record.ID, err)
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return err
	}
	return fileWriter.Close()
}

// ReadParquet reads every record from path.
func ReadParquet(path string, parallel int64) ([]Record, error) {
	if parallel < 1 {
		parallel = 1
	}

	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(Record), parallel)
	if err != nil {
		return nil, err
	}
	defer parquetReader.ReadStop()

	num := int(parquetReader.GetNumRows())
	records := make([]Record, 0, num)
	batchSize := 1024
	for offset := 0; offset < num; offset += batchSize {
		remain := num - offset
		if remain < batchSize {
			batchSize = remain
		}
		batch := make([]Record, batchSize)
		if err := parquetReader.Read(&batch); err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}
