package client

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"washpos/pkg/libpos"
)

// orderScheme is the URI scheme encoded in printed order QR codes.
// Handheld scanners type the decoded payload as keyboard input.
const orderScheme = "washpos"

// ParseScan extracts the order reference from a scanned payload.
// Both `washpos://order/<reference>` URIs and bare references are accepted.
func ParseScan(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", errors.New("empty scan payload")
	}

	if !strings.Contains(payload, "://") {
		return payload, nil
	}

	u, err := url.Parse(payload)
	if err != nil {
		return "", errors.Wrap(err, "could not parse scan payload")
	}
	if u.Scheme != orderScheme || u.Host != "order" {
		return "", errors.Errorf("unsupported scan payload %s", payload)
	}

	reference := strings.Trim(u.Path, "/")
	if reference == "" {
		return "", errors.Errorf("unsupported scan payload %s", payload)
	}
	return reference, nil
}

// Scan resolves a scanned payload to an order and renders it.
// With print enabled, a receipt is sent to the configured printer.
func Scan(payload string, print bool) error {
	reference, err := ParseScan(payload)
	if err != nil {
		return err
	}

	client, _, err := connect()
	if err != nil {
		return err
	}

	order, err := client.OrderByReference(reference)
	if err != nil {
		return errors.Wrap(err, "could not resolve order")
	}

	if err := renderOrder(order); err != nil {
		return err
	}

	if !print {
		return nil
	}

	kv, err := opencache()
	if err != nil {
		return err
	}
	defer kv.Close()

	printer, err := openPrinter(kv)
	if err != nil {
		return err
	}
	return errors.Wrap(printer.Print(Receipt(order)), "could not print receipt")
}

func renderOrder(order *libpos.Order) error {
	fmt.Printf("Order %s - %s [%s]\n", order.Reference, order.Customer, order.Status)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, line := range order.Lines {
		fmt.Fprintf(w, "%s\t%g\t%s\t%s\n",
			line.ServiceName, line.Quantity, money(line.UnitPrice), money(line.Amount))
	}
	fmt.Fprintf(w, "TOTAL\t\t\t%s\n", money(order.Total))
	return w.Flush()
}
