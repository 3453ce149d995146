package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/docgen/internal/types"
)

// DefaultPDFTimeout bounds one print job. Rendering is local, so anything
// slower indicates a stuck Chrome.
const DefaultPDFTimeout = 45 * time.Second

// Chrome prints HTML documents to PDF through a headless browser.
// Requires Chrome/Chromium to be installed on the system.
type Chrome struct {
	timeout time.Duration
}

// NewChrome creates a Chrome renderer. A zero timeout uses the default.
func NewChrome(timeout time.Duration) *Chrome {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	return &Chrome{timeout: timeout}
}

// RenderResume lays out and prints a resume.
func (c *Chrome) RenderResume(ctx context.Context, content *types.ResumeContent, info types.PersonalInfo, branding Branding) ([]byte, error) {
	html, err := ResumeHTML(content, info, branding)
	if err != nil {
		return nil, err
	}
	return c.printPDF(ctx, html)
}

// RenderCoverLetter lays out and prints a cover letter.
func (c *Chrome) RenderCoverLetter(ctx context.Context, content *types.CoverLetterContent, info types.PersonalInfo, job types.Job, branding Branding) ([]byte, error) {
	html, err := CoverLetterHTML(content, info, job, branding)
	if err != nil {
		return nil, err
	}
	return c.printPDF(ctx, html)
}

// printPDF loads the document into a headless browser and prints it as A4.
func (c *Chrome) printPDF(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}

	return pdf, nil
}
