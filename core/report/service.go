package report

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/roster"
)

var errEmptyReport = core.NewExportError("cannot export a report with no data")

type (
	// Codec renders a Document to workbook bytes. The native byte format
	// is a library concern; core only sees the buffer.
	Codec interface {
		WriteDocument(doc Document) (*bytes.Buffer, error)
	}

	Service struct {
		repo  roster.Repository
		codec Codec
		mail  core.EmailService
		log   core.Logger
		opts  Options
	}
)

func NewService(repo roster.Repository, codec Codec, mailSvc core.EmailService, log core.Logger) *Service {
	return &Service{
		repo:  repo,
		codec: codec,
		mail:  mailSvc,
		log:   log,
		opts:  DefaultOptions(),
	}
}

// Compute aggregates the owner's current dataset. roster.ErrNoDataset
// when nothing has been uploaded; an empty stored dataset still computes
// (to a no-data report).
func (svc *Service) Compute(ctx context.Context, owner string) (AggregateReport, error) {
	ds, err := svc.repo.GetDatasetByOwner(ctx, owner)
	if err != nil {
		return AggregateReport{}, err
	}
	return Aggregate(ds, svc.opts), nil
}

// Export computes, assembles and encodes the owner's report workbook.
// Export errors block only this step; the computed aggregates remain
// available through Compute.
func (svc *Service) Export(ctx context.Context, owner string) (Document, *bytes.Buffer, error) {
	rep, err := svc.Compute(ctx, owner)
	if err != nil {
		return Document{}, nil, err
	}
	doc, err := BuildDocument(rep, svc.opts)
	if err != nil {
		return Document{}, nil, err
	}
	buf, err := svc.codec.WriteDocument(doc)
	if err != nil {
		return Document{}, nil, errors.Wrap(err, "encoding report workbook")
	}
	return doc, buf, nil
}

// Email exports the owner's report and mails it as an attachment.
func (svc *Service) Email(ctx context.Context, owner string, to mail.Address) error {
	doc, buf, err := svc.Export(ctx, owner)
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{to},
		Subject: doc.Title,
		BodyStr: fmt.Sprintf("Please find attached the latest %s.", doc.Title),
	}
	if err := msg.Attach(buf, "class_performance_report.xlsx", xlsxContentType); err != nil {
		return errors.Wrap(err, "attaching report workbook")
	}
	svc.mail.SendMessages(msg)
	svc.log.Info("report emailed", map[string]interface{}{"owner": owner, "to": to.Address})
	return nil
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
