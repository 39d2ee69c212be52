package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrNotConfigured is returned by the null printer so callers can fall back
// to returning the receipt as data.
var ErrNotConfigured = errors.New("printer: no printer configured")

// Printer sends a rendered ESC/POS ticket to a thermal printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// Ready reports whether the device can currently accept a job
	Ready(ctx context.Context) bool
	Kind() string
}

// Device files (e.g. /dev/usb/lp0) are opened per job; the kernel driver
// serialises concurrent writers.
type devicePrinter struct {
	path string
}

func NewUSBPrinter(devicePath string) Printer {
	return &devicePrinter{path: devicePath}
}

func (p *devicePrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *devicePrinter) Ready(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *devicePrinter) Kind() string { return "usb" }

// Raw TCP printers, usually listening on port 9100.
type tcpPrinter struct {
	address      string
	writeTimeout time.Duration
	dialer       net.Dialer
}

func NewNetworkPrinter(address string) Printer {
	return &tcpPrinter{
		address:      address,
		writeTimeout: 10 * time.Second,
		dialer:       net.Dialer{Timeout: 5 * time.Second},
	}
}

func (p *tcpPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: dial %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *tcpPrinter) Ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *tcpPrinter) Kind() string { return "network" }

type nullPrinter struct{}

// NewNullPrinter is used when the terminal has no printer attached.
func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return ErrNotConfigured }
func (nullPrinter) Ready(context.Context) bool          { return false }
func (nullPrinter) Kind() string                        { return "none" }

// New builds the printer selected by PRINTER_TYPE.
func New(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, errors.New("printer: PRINTER_USB_PATH is required for usb printers")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, errors.New("printer: PRINTER_ADDRESS is required for network printers")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network or none)", printerType)
	}
}
