//go:build windows

package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/ppiankov/xlspectre/internal/models"
	"github.com/ppiankov/xlspectre/pkg/config"
)

// liveExtractor drives one shared Excel instance through COM automation.
// Excel automation is apartment threaded, so all COM calls are funneled
// through a single goroutine pinned to its OS thread. The instance is
// launched once per scan and quit on Close.
type liveExtractor struct {
	requests chan liveRequest
	shutdown chan struct{}
	done     chan error
	retry    retryConfig
}

type liveRequest struct {
	ctx      context.Context
	path     string
	fileName string
	reply    chan liveResult
}

type liveResult struct {
	entries []models.RawConnection
	errs    []models.ErrorRecord
}

func newLiveExtractor(cfg *config.Config) (Extractor, error) {
	e := &liveExtractor{
		requests: make(chan liveRequest),
		shutdown: make(chan struct{}),
		done:     make(chan error, 1),
		retry:    defaultRetryConfig(),
	}

	started := make(chan error, 1)
	go e.run(started)

	if err := <-started; err != nil {
		return nil, fmt.Errorf("failed to launch Excel: %w", err)
	}
	return e, nil
}

// Name returns the strategy identifier.
func (e *liveExtractor) Name() models.SourceStrategy {
	return models.StrategyLive
}

// ExtractFile asks the automation goroutine to open and enumerate path.
func (e *liveExtractor) ExtractFile(ctx context.Context, path, fileName string) ([]models.RawConnection, []models.ErrorRecord) {
	reply := make(chan liveResult, 1)
	select {
	case <-ctx.Done():
		return nil, []models.ErrorRecord{{FileName: fileName, Stage: models.StageOpen, Message: ctx.Err().Error()}}
	case e.requests <- liveRequest{ctx: ctx, path: path, fileName: fileName, reply: reply}:
	}

	// The automation call itself runs to completion even if ctx expires;
	// the caller stops waiting, the reply channel is buffered.
	select {
	case <-ctx.Done():
		return nil, []models.ErrorRecord{{FileName: fileName, Stage: models.StageOpen, Message: ctx.Err().Error()}}
	case res := <-reply:
		return res.entries, res.errs
	}
}

// Close quits the shared Excel instance and waits for teardown.
func (e *liveExtractor) Close() error {
	close(e.shutdown)
	return <-e.done
}

// run owns the Excel Application for the lifetime of the scan.
func (e *liveExtractor) run(started chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		started <- err
		e.done <- nil
		return
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Excel.Application")
	if err != nil {
		started <- err
		e.done <- nil
		return
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		started <- err
		e.done <- nil
		return
	}
	defer app.Release()

	// No UI, no prompts: the scan must run unattended.
	_, _ = oleutil.PutProperty(app, "Visible", false)
	_, _ = oleutil.PutProperty(app, "DisplayAlerts", false)

	started <- nil
	slog.Debug("excel automation instance launched")

	for {
		select {
		case <-e.shutdown:
			_, err := oleutil.CallMethod(app, "Quit")
			if err != nil {
				e.done <- fmt.Errorf("failed to quit Excel: %w", err)
			} else {
				e.done <- nil
			}
			return
		case req := <-e.requests:
			entries, errs := e.extractWorkbook(req.ctx, app, req.path, req.fileName)
			req.reply <- liveResult{entries: entries, errs: errs}
		}
	}
}

func (e *liveExtractor) extractWorkbook(ctx context.Context, app *ole.IDispatch, path, fileName string) ([]models.RawConnection, []models.ErrorRecord) {
	booksVar, err := oleutil.GetProperty(app, "Workbooks")
	if err != nil {
		return nil, []models.ErrorRecord{{FileName: fileName, Stage: models.StageOpen, Message: err.Error()}}
	}
	books := booksVar.ToIDispatch()
	defer books.Release()

	var workbook *ole.IDispatch
	openErr := executeWithRetry(ctx, e.retry, func() error {
		// Open(Filename, UpdateLinks:=0, ReadOnly:=True)
		wbVar, err := oleutil.CallMethod(books, "Open", path, 0, true)
		if err != nil {
			return err
		}
		workbook = wbVar.ToIDispatch()
		return nil
	})
	if openErr != nil {
		return nil, []models.ErrorRecord{{
			FileName: fileName,
			Stage:    models.StageOpen,
			Message:  fmt.Sprintf("excel could not open workbook: %v", openErr),
		}}
	}

	// Close on every exit path, including panics raised mid-enumeration,
	// or the file stays locked by the Excel process.
	defer func() {
		_, _ = oleutil.CallMethod(workbook, "Close", false)
		workbook.Release()
	}()

	return enumerateConnections(workbook, fileName)
}

func enumerateConnections(workbook *ole.IDispatch, fileName string) ([]models.RawConnection, []models.ErrorRecord) {
	connsVar, err := oleutil.GetProperty(workbook, "Connections")
	if err != nil {
		return nil, []models.ErrorRecord{{FileName: fileName, Stage: models.StageParse, Message: err.Error()}}
	}
	conns := connsVar.ToIDispatch()
	defer conns.Release()

	countVar, err := oleutil.GetProperty(conns, "Count")
	if err != nil {
		return nil, []models.ErrorRecord{{FileName: fileName, Stage: models.StageParse, Message: err.Error()}}
	}
	count := int(countVar.Val)

	var entries []models.RawConnection
	var errs []models.ErrorRecord

	for i := 1; i <= count; i++ {
		entry, err := readConnection(conns, i)
		if err != nil {
			// Sibling connections still get read.
			errs = append(errs, models.ErrorRecord{
				FileName: fileName,
				Stage:    models.StageConnectionRead,
				Message:  fmt.Sprintf("connection %d: %v", i, err),
			})
			continue
		}
		entries = append(entries, entry)
	}

	return entries, errs
}

func readConnection(conns *ole.IDispatch, index int) (models.RawConnection, error) {
	itemVar, err := oleutil.CallMethod(conns, "Item", index)
	if err != nil {
		return models.RawConnection{}, fmt.Errorf("item read failed: %w", err)
	}
	item := itemVar.ToIDispatch()
	defer item.Release()

	raw := models.RawConnection{
		Name:     stringProperty(item, "Name"),
		Strategy: models.StrategyLive,
	}

	// Providers expose their properties on either OLEDBConnection or
	// ODBCConnection; reading the absent one raises, which is expected.
	if oledb := dispatchProperty(item, "OLEDBConnection"); oledb != nil {
		defer oledb.Release()
		raw.ConnectionString = stringProperty(oledb, "Connection")
		raw.CommandText = stringProperty(oledb, "CommandText")
		raw.CommandType = stringProperty(oledb, "CommandType")
		raw.SourceFile = stringProperty(oledb, "SourceDataFile")
	} else if odbc := dispatchProperty(item, "ODBCConnection"); odbc != nil {
		defer odbc.Release()
		raw.ConnectionString = stringProperty(odbc, "Connection")
		raw.CommandText = stringProperty(odbc, "CommandText")
		raw.CommandType = stringProperty(odbc, "CommandType")
		raw.SourceFile = stringProperty(odbc, "SourceDataFile")
	}

	if raw.Name == "" && raw.ConnectionString == "" {
		return models.RawConnection{}, fmt.Errorf("no readable properties")
	}

	return raw, nil
}

func stringProperty(obj *ole.IDispatch, name string) string {
	v, err := oleutil.GetProperty(obj, name)
	if err != nil {
		return ""
	}
	defer v.Clear()
	return v.ToString()
}

func dispatchProperty(obj *ole.IDispatch, name string) *ole.IDispatch {
	v, err := oleutil.GetProperty(obj, name)
	if err != nil {
		return nil
	}
	return v.ToIDispatch()
}
