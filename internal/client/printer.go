package client

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"washpos/internal/cache"
	"washpos/pkg/libpos"
)

const receiptWidth = 32

// A Printer sends a rendered receipt to a physical device.
type Printer interface {
	Print(receipt string) error
}

// devicePrinter drives a line printer exposed as a character device,
// typically /dev/usb/lp0 for ESC/POS thermal printers in raw text mode.
type devicePrinter struct {
	device string
}

func (p *devicePrinter) Print(receipt string) error {
	f, err := os.OpenFile(p.device, os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "could not open printer %s", p.device)
	}
	defer f.Close()

	if _, err = f.Write([]byte(receipt)); err != nil {
		return errors.Wrap(err, "could not write to printer")
	}
	return nil
}

// consolePrinter echoes receipts on stdout when no device is configured.
type consolePrinter struct{}

func (p *consolePrinter) Print(receipt string) error {
	_, err := fmt.Print(receipt)
	return err
}

// openPrinter returns the printer configured for this terminal.
func openPrinter(kv *cache.Cache) (Printer, error) {
	device, err := kv.Get(cache.KeyPrinterDevice)
	if err != nil {
		return nil, err
	}
	if device == "" {
		return &consolePrinter{}, nil
	}
	return &devicePrinter{device: device}, nil
}

// SetPrinter configures the printer device of this terminal.
func SetPrinter(device string) error {
	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	return kv.Set(cache.KeyPrinterDevice, device)
}

// Receipt renders an order as a fixed-width customer receipt. The trailing
// payload line is reprinted as a QR code by printers supporting it.
func Receipt(order *libpos.Order) string {
	var b strings.Builder

	center := func(s string) {
		pad := (receiptWidth - len(s)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad) + s + "\n")
	}
	rule := func() {
		b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	}
	row := func(left, right string) {
		pad := receiptWidth - len(left) - len(right)
		if pad < 1 {
			pad = 1
		}
		b.WriteString(left + strings.Repeat(" ", pad) + right + "\n")
	}

	center("WashPOS")
	center(order.Reference)
	rule()
	row("Customer", order.Customer)
	row("Status", order.Status)
	rule()
	for _, line := range order.Lines {
		row(fmt.Sprintf("%s x%g", line.ServiceName, line.Quantity), money(line.Amount))
	}
	rule()
	row("TOTAL", money(order.Total))
	rule()
	center("Thank you!")
	b.WriteString(fmt.Sprintf("%s://order/%s\n", orderScheme, order.Reference))

	return b.String()
}
