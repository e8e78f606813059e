// Package trigger sends event markers to the eye tracker and to a DLP-IO8-G
// TTL box, and keeps a log of every marker sent.
package trigger

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/monitoring"
)

// Port is the part of a serial port the DLP needs.
type Port interface {
	io.ReadWriter
	io.Closer
}

// DLPIO8G drives the eight TTL lines of a DLP-IO8-G in binary mode.
type DLPIO8G struct {
	port  Port
	sleep func(time.Duration)
}

// OpenDLP opens the device on a serial port.
func OpenDLP(device string, baudrate int) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	return NewDLP(port)
}

// NewDLP pings the device on port and switches it to binary mode.
func NewDLP(port Port) (*DLPIO8G, error) {
	d := &DLPIO8G{port: port, sleep: time.Sleep}
	if !d.Ping() {
		port.Close()
		return nil, fmt.Errorf("device did not respond to ping correctly")
	}

	if _, err := port.Write([]byte{'\\'}); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func (d *DLPIO8G) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{'\''}); err != nil {
		return false
	}

	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == 'Q'
}

// unsetCodes are the commands that pull lines 1-8 low.
var unsetCodes = map[byte]byte{
	'1': 'Q', '2': 'W', '3': 'E', '4': 'R',
	'5': 'T', '6': 'Y', '7': 'U', '8': 'I',
}

func validLines(lines string) error {
	for i := 0; i < len(lines); i++ {
		if _, ok := unsetCodes[lines[i]]; !ok {
			return fmt.Errorf("invalid DLP line %q", lines[i])
		}
	}
	return nil
}

// Set pulls the given lines ("1".."8", e.g. "13") high.
func (d *DLPIO8G) Set(lines string) error {
	if err := validLines(lines); err != nil {
		return err
	}
	_, err := d.port.Write([]byte(lines))
	return err
}

// Unset pulls the given lines low.
func (d *DLPIO8G) Unset(lines string) error {
	if err := validLines(lines); err != nil {
		return err
	}
	cmd := []byte(lines)
	for i := range cmd {
		cmd[i] = unsetCodes[cmd[i]]
	}
	_, err := d.port.Write(cmd)
	return err
}

// Pulse holds lines high for width.
func (d *DLPIO8G) Pulse(lines string, width time.Duration) error {
	if err := d.Set(lines); err != nil {
		return err
	}
	d.sleep(width)
	if err := d.Unset(lines); err != nil {
		monitoring.Logf("dlp: unset %s failed: %v", lines, err)
		return err
	}
	return nil
}
