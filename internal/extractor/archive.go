package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"

	"github.com/ppiankov/xlspectre/internal/models"
)

// connectionsPart is the OOXML part describing workbook data connections.
const connectionsPart = "xl/connections.xml"

// ArchiveExtractor reads xl/connections.xml straight out of the workbook's
// zip container. No Excel installation required; this is the default and
// portable path.
type ArchiveExtractor struct{}

// NewArchiveExtractor creates the archive introspection strategy.
func NewArchiveExtractor() *ArchiveExtractor {
	return &ArchiveExtractor{}
}

// Name returns the strategy identifier.
func (e *ArchiveExtractor) Name() models.SourceStrategy {
	return models.StrategyArchive
}

// Close is a no-op; the archive strategy holds no shared resources.
func (e *ArchiveExtractor) Close() error {
	return nil
}

// xmlConnections mirrors the spreadsheetml connections part. Element names
// match on local name, so the default namespace needs no special handling.
type xmlConnections struct {
	XMLName     xml.Name        `xml:"connections"`
	Connections []xmlConnection `xml:"connection"`
}

type xmlConnection struct {
	ID         string    `xml:"id,attr"`
	Name       string    `xml:"name,attr"`
	SourceFile string    `xml:"sourceFile,attr"`
	DbPr       *xmlDbPr  `xml:"dbPr"`
	OlapPr     *struct{} `xml:"olapPr"`
	WebPr      *struct{} `xml:"webPr"`
	TextPr     *struct{} `xml:"textPr"`
}

type xmlDbPr struct {
	Connection  string `xml:"connection,attr"`
	Command     string `xml:"command,attr"`
	CommandType string `xml:"commandType,attr"`
}

// ExtractFile opens the workbook as a read-only zip archive and parses its
// connections part. A workbook without that part is valid and yields no
// entries and no errors.
func (e *ArchiveExtractor) ExtractFile(ctx context.Context, path, fileName string) ([]models.RawConnection, []models.ErrorRecord) {
	if err := ctx.Err(); err != nil {
		return nil, []models.ErrorRecord{{FileName: fileName, Stage: models.StageOpen, Message: err.Error()}}
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, []models.ErrorRecord{{
			FileName: fileName,
			Stage:    models.StageOpen,
			Message:  fmt.Sprintf("not a readable workbook archive: %v", err),
		}}
	}
	defer reader.Close()

	part := findPart(&reader.Reader, connectionsPart)
	if part == nil {
		slog.Debug("workbook has no connections part", slog.String("file", fileName))
		return nil, nil
	}

	data, err := readPart(part)
	if err != nil {
		return nil, []models.ErrorRecord{{
			FileName: fileName,
			Stage:    models.StageParse,
			Message:  fmt.Sprintf("failed to read %s: %v", connectionsPart, err),
		}}
	}

	var doc xmlConnections
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, []models.ErrorRecord{{
			FileName: fileName,
			Stage:    models.StageParse,
			Message:  fmt.Sprintf("malformed %s: %v", connectionsPart, err),
		}}
	}

	entries := make([]models.RawConnection, 0, len(doc.Connections))
	for _, conn := range doc.Connections {
		name := conn.Name
		if name == "" {
			name = conn.ID
		}

		raw := models.RawConnection{
			Name:       name,
			SourceFile: conn.SourceFile,
			Strategy:   models.StrategyArchive,
		}
		if conn.DbPr != nil {
			raw.ConnectionString = conn.DbPr.Connection
			raw.CommandText = conn.DbPr.Command
			raw.CommandType = conn.DbPr.CommandType
		} else if conn.OlapPr != nil || conn.WebPr != nil || conn.TextPr != nil {
			// Non-DB connection kinds carry no command; keep the entry so the
			// inventory is complete, fields stay empty.
			slog.Debug("non-DB connection type",
				slog.String("file", fileName),
				slog.String("connection", name),
			)
		}
		entries = append(entries, raw)
	}

	return entries, nil
}

func findPart(reader *zip.Reader, name string) *zip.File {
	for _, file := range reader.File {
		if file.Name == name {
			return file
		}
	}
	return nil
}

func readPart(part *zip.File) ([]byte, error) {
	rc, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
