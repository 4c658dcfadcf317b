package probe

import (
	"context"
	"fmt"
	"net"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// tcpProbe checks raw TCP reachability of a host:port. It proves only that
// something accepts connections — pair it with an HTTP or command probe
// when the dependency offers a richer health signal.
type tcpProbe struct {
	spec domain.TCPConnectSpec
	addr string
}

func newTCP(spec domain.TCPConnectSpec) *tcpProbe {
	return &tcpProbe{
		spec: spec,
		addr: domain.JoinHostPort(spec.Host, spec.Port),
	}
}

func (p *tcpProbe) Describe() string { return p.spec.Target() }
func (p *tcpProbe) Critical() bool   { return p.spec.Critical }

func (p *tcpProbe) Check(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", p.addr, err)
	}
	return conn.Close()
}
