// Command mockserver simulates a raw-feed TCP server emitting ASCII
// `*<hex>;`-framed extended squitters for a handful of moving aircraft, for
// exercising viz1090 without real receiver hardware.
package main

import (
	"fmt"
	"math"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OJPARKINSON/viz1090/internal/crc24"
	"github.com/OJPARKINSON/viz1090/internal/geo"
)

// Downlink format and type code constants for the extended squitters this
// server generates.
const (
	df17 = 17

	tcIdent        = 4
	tcAirbornePos  = 11
	tcAirborneVel  = 19
)

// simAircraft is a simulated aircraft with a kinematic state that advances
// every update tick.
type simAircraft struct {
	ICAO      uint32
	Callsign  string
	Lat       float64
	Lon       float64
	Alt       int
	Speed     int
	Heading   int
	ClimbRate int
	Odd       bool
	LastSeen  time.Time
	mutex     sync.Mutex
}

// mockServer accepts raw-feed TCP clients and streams simulated extended
// squitters to all of them.
type mockServer struct {
	aircraft  map[uint32]*simAircraft
	listeners []net.Conn
	mutex     sync.Mutex
	running   bool
}

func newMockServer() *mockServer {
	return &mockServer{
		aircraft: make(map[uint32]*simAircraft),
	}
}

func (s *mockServer) addAircraft(icao uint32, callsign string, lat, lon float64, alt, speed, heading int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.aircraft[icao] = &simAircraft{
		ICAO:      icao,
		Callsign:  callsign,
		Lat:       lat,
		Lon:       lon,
		Alt:       alt,
		Speed:     speed,
		Heading:   heading,
		ClimbRate: rand.Intn(1000) - 500,
		LastSeen:  time.Now(),
	}
}

func (s *mockServer) start(port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}
	defer listener.Close()

	fmt.Printf("mockserver listening on port %d\n", port)

	s.running = true
	go s.updateLoop()

	for s.running {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Printf("error accepting connection: %v\n", err)
			continue
		}

		fmt.Printf("client connected: %s\n", conn.RemoteAddr())

		s.mutex.Lock()
		s.listeners = append(s.listeners, conn)
		s.mutex.Unlock()

		go s.handleClient(conn)
	}

	return nil
}

func (s *mockServer) stop() {
	s.running = false

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, conn := range s.listeners {
		conn.Close()
	}
	s.listeners = nil
}

func (s *mockServer) handleClient(conn net.Conn) {
	defer func() {
		conn.Close()

		s.mutex.Lock()
		for i, c := range s.listeners {
			if c == conn {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				break
			}
		}
		s.mutex.Unlock()

		fmt.Printf("client disconnected: %s\n", conn.RemoteAddr())
	}()

	buffer := make([]byte, 1024)
	for s.running {
		conn.SetReadDeadline(time.Now().Add(1 * time.Second))

		_, err := conn.Read(buffer)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			break
		}
	}
}

func (s *mockServer) updateLoop() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for s.running {
		<-ticker.C
		s.updateAircraft()
		s.sendUpdates()
	}
}

func (s *mockServer) updateAircraft() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()

	for _, a := range s.aircraft {
		a.mutex.Lock()

		elapsed := now.Sub(a.LastSeen).Seconds()
		a.LastSeen = now

		distanceNM := float64(a.Speed) * elapsed / 3600.0

		headingRad := float64(a.Heading) * math.Pi / 180.0

		latFactor := math.Cos(a.Lat * math.Pi / 180.0)
		a.Lon += (distanceNM * math.Sin(headingRad)) / (60.0 * latFactor)
		a.Lat += (distanceNM * math.Cos(headingRad)) / 60.0

		a.Alt += int((float64(a.ClimbRate) * elapsed) / 60.0)

		if rand.Float64() < 0.05 {
			a.Heading += rand.Intn(3) - 1
			if a.Heading < 0 {
				a.Heading += 360
			} else if a.Heading >= 360 {
				a.Heading -= 360
			}
		}

		if rand.Float64() < 0.02 {
			a.ClimbRate = rand.Intn(2000) - 1000
		}

		a.Odd = !a.Odd

		a.mutex.Unlock()
	}
}

func (s *mockServer) sendUpdates() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.listeners) == 0 {
		return
	}

	for _, a := range s.aircraft {
		a.mutex.Lock()

		if rand.Float64() < 0.05 {
			s.broadcast(framed(identFrame(a.ICAO, a.Callsign)))
		}

		s.broadcast(framed(positionFrame(a.ICAO, a.Lat, a.Lon, a.Alt, a.Odd)))
		s.broadcast(framed(velocityFrame(a.ICAO, a.Speed, a.Heading, a.ClimbRate)))

		a.mutex.Unlock()

		time.Sleep(5 * time.Millisecond)
	}
}

func (s *mockServer) broadcast(line []byte) {
	for _, conn := range s.listeners {
		if _, err := conn.Write(line); err != nil {
			fmt.Printf("error writing to client: %v\n", err)
		}
	}
}

// framed wraps an 11-byte frame body (DF/CA + ICAO + ME) with a freshly
// computed CRC-24 parity and renders it as an ASCII `*<hex>;` line.
func framed(body [11]byte) []byte {
	var frame [14]byte
	copy(frame[:11], body[:])

	parity := crc24.Parity(frame[:11])
	frame[11] = byte(parity >> 16)
	frame[12] = byte(parity >> 8)
	frame[13] = byte(parity)

	var sb strings.Builder
	sb.Grow(30)
	sb.WriteByte('*')
	for _, b := range frame {
		fmt.Fprintf(&sb, "%02X", b)
	}
	sb.WriteByte(';')
	sb.WriteByte('\n')
	return []byte(sb.String())
}

func icaoBytes(body *[11]byte, icao uint32) {
	body[1] = byte(icao >> 16)
	body[2] = byte(icao >> 8)
	body[3] = byte(icao)
}

// identFrame builds an aircraft-identification extended squitter (type
// code 1..4) carrying an 8-character callsign.
func identFrame(icao uint32, callsign string) [11]byte {
	var body [11]byte
	body[0] = df17<<3 | 5
	icaoBytes(&body, icao)
	body[4] = tcIdent << 3

	padded := callsign
	if len(padded) < 8 {
		padded += strings.Repeat(" ", 8-len(padded))
	} else if len(padded) > 8 {
		padded = padded[:8]
	}

	me := body[4:11]
	for i := 0; i < 8; i++ {
		code := identCode(padded[i])
		bitOffset := 8 + i*6 // ME bit 9 is the first callsign bit (1-indexed)
		setBits(me, bitOffset, 6, code)
	}

	return body
}

// identCode maps a callsign character to its 6-bit ADS-B code, the inverse
// of the identification decoder's table.
func identCode(c byte) uint32 {
	switch {
	case c >= 'A' && c <= 'Z':
		return uint32(c-'A') + 1
	case c >= '0' && c <= '9':
		return uint32(c-'0') + 48
	default:
		return 32 // space
	}
}

// setBits writes a width-bit value into me (the 7-byte ME field) starting at
// the given 0-indexed bit offset from the start of me, MSB first.
func setBits(me []byte, bitOffset, width int, value uint32) {
	for i := 0; i < width; i++ {
		bit := bitOffset + i
		byteIdx := bit / 8
		bitIdx := 7 - bit%8
		if value&(1<<uint(width-1-i)) != 0 {
			me[byteIdx] |= 1 << bitIdx
		}
	}
}

// positionFrame builds an airborne-position extended squitter (type code
// 9..18) carrying a Q-bit-encoded altitude and CPR-encoded position.
func positionFrame(icao uint32, lat, lon float64, alt int, odd bool) [11]byte {
	var body [11]byte
	body[0] = df17<<3 | 5
	icaoBytes(&body, icao)

	body[4] = tcAirbornePos << 3

	altCode := uint32((alt+1000)/25) & 0x7FF
	top7 := (altCode >> 4) & 0x7F
	low4 := altCode & 0x0F
	body[5] = byte(top7<<1) | 0x01 // Q-bit set
	body[6] = byte(low4 << 4)

	i := 0
	if odd {
		i = 1
	}
	latZoneWidth := 360.0 / float64(60-i)
	yz := encodeCPR(lat, latZoneWidth)

	ni := geo.NL(lat) - i
	if ni < 1 {
		ni = 1
	}
	lonZoneWidth := 360.0 / float64(ni)
	xz := encodeCPR(lon, lonZoneWidth)

	me := body[4:11]
	if odd {
		setBits(me, 21, 1, 1) // ME bit 22 (1-indexed): odd/even flag
	}
	setBits(me, 22, 17, uint32(yz)) // ME bits 23..39
	setBits(me, 39, 17, uint32(xz)) // ME bits 40..56

	return body
}

// encodeCPR is the inverse of the CPR decoder's fractional-position
// reconstruction: it maps a coordinate into its 17-bit zone-relative code.
func encodeCPR(value, zoneWidth float64) int {
	frac := geo.PMod(value, zoneWidth) / zoneWidth
	enc := int(math.Floor(frac*131072 + 0.5))
	return enc & 0x1FFFF
}

// velocityFrame builds a subtype-1 airborne-velocity extended squitter
// (type code 19) carrying ground-speed vector components and vertical rate.
func velocityFrame(icao uint32, speed, heading, climbRate int) [11]byte {
	var body [11]byte
	body[0] = df17<<3 | 5
	icaoBytes(&body, icao)
	body[4] = tcAirborneVel<<3 | 1

	ewVel := int(float64(speed) * math.Sin(float64(heading)*math.Pi/180.0))
	ewSign := ewVel < 0
	if ewSign {
		ewVel = -ewVel
	}
	ewCode := ewVel + 1
	if ewSign {
		body[5] |= 0x04
	}
	body[5] |= byte((ewCode >> 8) & 0x03)
	body[6] = byte(ewCode & 0xFF)

	nsVel := int(float64(speed) * math.Cos(float64(heading)*math.Pi/180.0))
	nsSign := nsVel < 0
	if nsSign {
		nsVel = -nsVel
	}
	nsCode := nsVel + 1
	if nsSign {
		body[7] |= 0x80
	}
	body[7] |= byte((nsCode >> 3) & 0x7F)
	body[8] = byte((nsCode & 0x07) << 5)

	vr := climbRate
	vrDescending := vr < 0
	if vrDescending {
		vr = -vr
	}
	vrCode := vr/64 + 1
	if vrDescending {
		body[8] |= 0x08
	}
	body[8] |= byte((vrCode >> 6) & 0x07)
	body[9] = byte((vrCode & 0x3F) << 2)

	return body
}

func main() {
	port := 30005

	rootCmd := &cobra.Command{
		Use:   "mockserver",
		Short: "simulate a raw ADS-B feed for viz1090",
		RunE: func(cmd *cobra.Command, args []string) error {
			rand.Seed(time.Now().UnixNano())

			server := newMockServer()
			server.addAircraft(0xABCDEF, "SWA1234", 37.6188, -122.3756, 10000, 450, 45)
			server.addAircraft(0x123456, "UAL789", 37.7749, -122.4194, 25000, 500, 270)
			server.addAircraft(0x789ABC, "DAL456", 37.8716, -122.2727, 35000, 550, 180)
			server.addAircraft(0x456DEF, "AAL100", 38.0100, -122.1000, 15000, 400, 135)
			server.addAircraft(0xFEDCBA, "JBU202", 37.5000, -122.5000, 28000, 480, 90)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nreceived shutdown signal")
				server.stop()
				os.Exit(0)
			}()

			return server.start(port)
		},
	}
	rootCmd.Flags().IntVar(&port, "port", port, "TCP port to listen on")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
