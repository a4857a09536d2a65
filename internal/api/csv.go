package api

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/victornm/drawboard/internal/errors"
)

const (
	csvFormField = "file"
	utf8BOM      = "\xef\xbb\xbf"
)

// ImportCandidates adds the first column of every row of an uploaded CSV file
// to the pool. The file is read from the "file" form field, or from the
// request body when the request is not multipart.
func (a *API) ImportCandidates(c *gin.Context) {
	r, closer, err := csvSource(c)
	if err != nil {
		renderError(c, errors.InvalidArgument("missing csv file: %v", err))
		return
	}
	defer closer.Close()

	ids, err := readFirstColumn(r)
	if err != nil {
		renderError(c, errors.InvalidArgument("invalid csv: %v", err))
		return
	}

	added := boardOf(c).Add(ids...)
	slog.InfoContext(c.Request.Context(), "api: candidates imported",
		"variant", boardOf(c).Variant(), "rows", len(ids), "added", added)
	ok(c, ImportResponse{Added: added})
}

func csvSource(c *gin.Context) (io.Reader, io.Closer, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		f, _, err := c.Request.FormFile(csvFormField)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	}

	return c.Request.Body, c.Request.Body, nil
}

func readFirstColumn(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, []byte(utf8BOM)) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var ids []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		ids = append(ids, strings.TrimSpace(rec[0]))
	}

	return ids, nil
}

// ExportWinners writes the draw history as CSV, in reveal order.
func (a *API) ExportWinners(c *gin.Context) {
	b := boardOf(c)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s_winners.csv", b.Variant()))
	c.Status(http.StatusOK)

	// Excel needs the BOM to pick UTF-8.
	_, _ = c.Writer.WriteString(utf8BOM)

	w := csv.NewWriter(c.Writer)
	if err := w.Write([]string{"order", "winner"}); err != nil {
		slog.ErrorContext(c.Request.Context(), "api: write csv header failed", "error", err)
		return
	}
	for i, id := range b.History() {
		if err := w.Write([]string{strconv.Itoa(i + 1), id}); err != nil {
			slog.ErrorContext(c.Request.Context(), "api: write csv row failed", "error", err)
			return
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		slog.ErrorContext(c.Request.Context(), "api: flush csv failed", "error", err)
	}
}
