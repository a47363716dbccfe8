// ABOUTME: Deterministic mock data for the call log and SMS inbox
// ABOUTME: Same seed and clock always yield the same data set

package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/sms"
)

// Dataset is everything the stores are seeded with
type Dataset struct {
	Calls        []*calllog.CallRecord `json:"calls"`
	Threads      []*sms.Thread         `json:"threads"`
	SmartReplies []sms.SmartReply      `json:"smartReplies"`
}

// Options controls Generate
type Options struct {
	Calls   int       // number of call records
	Threads int       // number of SMS threads
	Seed    int64     // random seed
	Now     time.Time // reference clock; data lies in the day before it
}

// DefaultOptions returns the stock data set size
func DefaultOptions() Options {
	return Options{
		Calls:   25,
		Threads: 12,
		Seed:    1,
		Now:     time.Now().UTC().Truncate(time.Second),
	}
}

var replyTexts = []string{
	"Sounds good, thank you!",
	"Yes, that works for me.",
	"No, thank you.",
	"Can you provide more information?",
	"I am available to talk now.",
	"Please call me back later.",
	"Let me check and get back to you.",
	"Okay 👍",
}

var firstNames = []string{
	"Olivia", "Liam", "Emma", "Noah", "Amelia", "Oliver", "Sophia", "Elijah",
	"Charlotte", "James", "Mia", "Lucas", "Harper", "Mateo", "Evelyn", "Levi",
}

var lastNames = []string{
	"Garcia", "Johnson", "Nguyen", "Patel", "Kowalski", "Okafor", "Schmidt",
	"Rossi", "Tanaka", "Silva", "Murphy", "Dubois", "Larsen", "Haddad",
}

var products = []string{
	"Ergonomic Steel Chair", "Solar Roof Install", "Premium Support Plan",
	"Handcrafted Oak Table", "Fiber Internet Bundle", "Smart Thermostat",
}

var words = strings.Fields(`
	quote schedule install pricing invoice delivery window estimate contract
	warranty follow up discuss options budget timeline confirm details visit
	availability customer account upgrade service renewal demo question team
	manager proposal discount payment order shipping tomorrow morning afternoon
`)

type generator struct {
	rng *rand.Rand
	now time.Time
}

func (g *generator) id() string {
	u, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// math/rand never fails to fill a buffer
		panic(err)
	}
	return u.String()
}

func (g *generator) between(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

func (g *generator) phone() string {
	return fmt.Sprintf("(%03d) %03d-%04d", g.between(201, 989), g.rng.Intn(1000), g.rng.Intn(10000))
}

func (g *generator) sentence() string {
	n := g.between(5, 12)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[g.rng.Intn(len(words))]
	}
	parts[0] = strings.ToUpper(parts[0][:1]) + parts[0][1:]
	return strings.Join(parts, " ") + "."
}

func (g *generator) paragraph() string {
	n := g.between(3, 5)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.sentence()
	}
	return strings.Join(parts, " ")
}

// recent returns an instant within the day before now, second precision
func (g *generator) recent() time.Time {
	return g.now.Add(-time.Duration(g.rng.Int63n(int64(24 * time.Hour)))).Truncate(time.Second)
}

func (g *generator) thread() *sms.Thread {
	count := g.between(5, 10)
	first := g.recent()

	messages := make([]sms.Message, count)
	for j := range messages {
		dir := sms.Inbound
		if g.rng.Intn(2) == 1 {
			dir = sms.Outbound
		}
		messages[j] = sms.Message{
			ID:        g.id(),
			Body:      g.sentence(),
			Timestamp: first.Add(time.Duration(j) * 2 * time.Minute),
			Direction: dir,
		}
	}

	t := &sms.Thread{
		ContactID:     g.id(),
		ContactName:   firstNames[g.rng.Intn(len(firstNames))] + " " + lastNames[g.rng.Intn(len(lastNames))],
		ContactNumber: g.phone(),
		UnreadCount:   g.rng.Intn(4),
		Messages:      messages,
		RoutingNumber: g.phone(),
	}
	if g.rng.Intn(2) == 0 {
		t.CallToTextContext = fmt.Sprintf("Follow-up from our call about %s.", products[g.rng.Intn(len(products))])
	}

	last := messages[len(messages)-1]
	t.LastMessage = last.Body
	t.Timestamp = last.Timestamp
	return t
}

// call creates a call record. When contact is set the contact is one of
// the two parties and the other side is the business line.
func (g *generator) call(contact *sms.Thread) *calllog.CallRecord {
	transcript := make([]string, g.between(5, 20))
	for i := range transcript {
		transcript[i] = g.sentence()
	}

	id := g.id()
	c := &calllog.CallRecord{
		ID:           id,
		CallerNumber: g.phone(),
		DialedNumber: g.phone(),
		Timestamp:    g.recent(),
		Duration:     fmt.Sprintf("%dm %ds", g.between(1, 59), g.rng.Intn(60)),
		Summary:      g.paragraph(),
		IsQualified:  g.rng.Intn(2) == 1,
		Transcript:   transcript,
		RecordingURL: "https://recordings.example.com/" + id + ".mp3",
	}

	if contact != nil {
		if g.rng.Intn(2) == 0 {
			c.CallerNumber = contact.ContactNumber
			c.DialedNumber = contact.RoutingNumber
		} else {
			c.CallerNumber = contact.RoutingNumber
			c.DialedNumber = contact.ContactNumber
		}
	}
	return c
}

// Generate builds a data set. About half the calls involve a thread's
// contact so profile timelines have both kinds of entries.
func Generate(opts Options) *Dataset {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC().Truncate(time.Second)
	}
	g := &generator{rng: rand.New(rand.NewSource(opts.Seed)), now: opts.Now}

	ds := &Dataset{}
	for i := 0; i < opts.Threads; i++ {
		ds.Threads = append(ds.Threads, g.thread())
	}

	for i := 0; i < opts.Calls; i++ {
		var contact *sms.Thread
		if len(ds.Threads) > 0 && g.rng.Intn(2) == 0 {
			contact = ds.Threads[g.rng.Intn(len(ds.Threads))]
		}
		ds.Calls = append(ds.Calls, g.call(contact))
	}

	for _, text := range replyTexts {
		ds.SmartReplies = append(ds.SmartReplies, sms.SmartReply{ID: g.id(), Text: text})
	}

	sms.SortByRecent(ds.Threads)
	return ds
}

// DefaultSmartReplies returns the canned replies with stable IDs
func DefaultSmartReplies() []sms.SmartReply {
	out := make([]sms.SmartReply, len(replyTexts))
	for i, text := range replyTexts {
		out[i] = sms.SmartReply{ID: fmt.Sprintf("reply-%d", i+1), Text: text}
	}
	return out
}
