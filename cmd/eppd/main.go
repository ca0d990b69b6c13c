// Command eppd runs a demonstration EPP registry server.
//
// It wires the session engine to a small handler set: any login with a
// non-empty client ID and password is accepted, domain <check> answers
// with canned response data, domain <info> reports every object as
// nonexistent, and <poll> is backed by a durable message queue.  Real registries replace the handlers and keep the wiring.
package main

import (
	"context"
	"encoding/xml"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/antchfx/xmlquery"
	"github.com/rs/zerolog"

	"github.com/provreg/epp/config"
	"github.com/provreg/epp/frame"
	"github.com/provreg/epp/msgq"
	"github.com/provreg/epp/result"
	"github.com/provreg/epp/server"
	"github.com/provreg/epp/session"
)

const domainNS = "urn:ietf:params:xml:ns:domain-1.0"

func main() {
	configPath := flag.String("config", "", "path to config file")
	dataPath := flag.String("data", "eppd.db", "message queue database path")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	queue, err := msgq.Open(*dataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening message queue")
	}
	defer queue.Close()

	srv := server.New(cfg, handlers(cfg, queue))
	if err := srv.Listen(); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := srv.Serve(ctx); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func handlers(cfg *config.Config, queue *msgq.Queue) session.Registry {
	return session.Registry{
		session.EventHello: func(req *session.Request) (interface{}, error) {
			return frame.ServerInfo{
				ServerID:   cfg.Host,
				Objects:    []string{domainNS},
				Extensions: []string{"urn:ietf:params:xml:ns:secDNS-1.1"},
			}, nil
		},
		session.EventLogin: login,
		session.EventCheck: check,
		session.EventInfo:  info,
		session.EventPoll:  poll(queue),
	}
}

func login(req *session.Request) (interface{}, error) {
	l, err := frame.ParseLogin(req.Frame)
	if err != nil {
		return nil, err
	}
	if l.ClID == "" || l.Password == "" {
		return session.Reply{
			Code:    result.AuthenticationError,
			Message: "Invalid credentials.",
		}, nil
	}
	return result.OK, nil
}

// check answers every queried domain as available.
func check(req *session.Request) (interface{}, error) {
	resData := frame.Element("resData")
	chkData := domainElement("chkData")
	xmlquery.AddChild(resData, chkData)
	for _, name := range xmlquery.Find(req.Frame, "//check/*/*[local-name()='name']") {
		cd := domainElement("cd")
		avail := domainElement("name")
		avail.Attr = append(avail.Attr, boolAttr("avail", true))
		xmlquery.AddChild(avail, &xmlquery.Node{Type: xmlquery.TextNode, Data: strings.TrimSpace(name.InnerText())})
		xmlquery.AddChild(cd, avail)
		xmlquery.AddChild(chkData, cd)
	}
	return session.Payload{Code: result.OK, Elements: []*xmlquery.Node{resData}}, nil
}

// info reports every domain as unknown: this demo has no registry
// database behind it.
func info(req *session.Request) (interface{}, error) {
	return result.ObjectDoesNotExist, nil
}

func poll(queue *msgq.Queue) session.Handler {
	return func(req *session.Request) (interface{}, error) {
		op := ""
		msgID := ""
		if p := xmlquery.FindOne(req.Frame, "//command/poll"); p != nil {
			op = p.SelectAttr("op")
			msgID = p.SelectAttr("msgID")
		}
		switch op {
		case "ack":
			var id uint64
			for _, r := range msgID {
				if r < '0' || r > '9' {
					return session.Reply{Code: result.ParameterSyntaxError, Message: "Invalid msgID."}, nil
				}
				id = id*10 + uint64(r-'0')
			}
			if err := queue.Ack(req.Session.ClID(), id); err != nil {
				return nil, err
			}
			count, err := queue.Count(req.Session.ClID())
			if err != nil {
				return nil, err
			}
			if count == 0 {
				return result.OKNoMessages, nil
			}
			m, count, err := queue.Front(req.Session.ClID())
			if err != nil {
				return nil, err
			}
			return session.Payload{Code: result.OKMessagePresent, Elements: []*xmlquery.Node{m.Node(count)}}, nil
		default: // "req" is the poll default
			m, count, err := queue.Front(req.Session.ClID())
			if err != nil {
				return nil, err
			}
			if count == 0 {
				return result.OKNoMessages, nil
			}
			return session.Payload{Code: result.OKMessagePresent, Elements: []*xmlquery.Node{m.Node(count)}}, nil
		}
	}
}

func domainElement(local string) *xmlquery.Node {
	n := &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         local,
		Prefix:       "domain",
		NamespaceURI: domainNS,
	}
	if local == "chkData" {
		n.Attr = append(n.Attr, xmlquery.Attr{
			Name:  xml.Name{Space: "xmlns", Local: "domain"},
			Value: domainNS,
		})
	}
	return n
}

func boolAttr(local string, v bool) xmlquery.Attr {
	val := "0"
	if v {
		val = "1"
	}
	return xmlquery.Attr{Name: xml.Name{Local: local}, Value: val}
}
