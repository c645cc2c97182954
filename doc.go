/*
Package kinmap is the headless core of an interactive genogram editor: the
entity graph, the interaction state machines, undo history, and document
persistence, without any rendering.

It implements a "document plus gesture machines" architecture. The document
is a flat set of entity arrays (people, relationships, households, text
annotations) with referential integrity enforced on every mutation. Incomplete
gestures (drawing a connection, tracing a household boundary) live in small
state machines outside the document, so an abandoned gesture never leaves
partial entities behind. This Hexagonal Architecture keeps the core decoupled
from adapters: storage backends, the sync client toward a case-management
system, and the websocket bridge toward a hosting application all sit behind
ports.

# Key Behaviors

  - Cascade deletes: removing a person removes the relationships that touch
    it, the child edges hanging off removed partner pairs, and household
    memberships.
  - Whole-document undo: every committed action pushes a snapshot; N undos
    restore the state before the last N actions.
  - Child connection policy: attaching a child to a parent resolves the
    co-parent automatically when the parent has exactly one partner, and
    surfaces a decision otherwise.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/avelar0/kinmap"
		"github.com/avelar0/kinmap/pkg/domain"
	)

	func main() {
		editor := kinmap.New()
		defer editor.Close()

		ctx := context.Background()
		ana, err := editor.AddPerson(ctx, domain.Person{Name: "Ana", X: 100, Y: 100})
		if err != nil {
			log.Fatal(err)
		}
		bruno, _ := editor.AddPerson(ctx, domain.Person{Name: "Bruno", X: 300, Y: 100})

		// Draw a partner line from Ana to Bruno.
		editor.StartConnection(ana.ID, domain.ConnectPartner)
		if _, ok := editor.CommitConnection(ctx, bruno.ID); !ok {
			log.Fatal("connection rejected")
		}

		data, err := editor.Serialize()
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("document: %s", data)
	}
*/
package kinmap
