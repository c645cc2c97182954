/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing genogram documents.

It allows developers to define family structures using a type-safe, fluent builder pattern
instead of hand-writing JSON. This is particularly useful for seeding demos, unit testing,
and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/avelar0/kinmap/pkg/dsl"
	)

	func main() {
		family := dsl.New()

		family.Person("ana").Name("Ana").Female().Born("1960-03-12").At(100, 100)
		family.Person("bruno").Name("Bruno").Male().Born("1958-07-01").At(300, 100)
		family.Person("carla").Name("Carla").Female().At(200, 260)

		family.Partners("ana", "bruno").Since("1985").Children("carla")

		doc, err := family.Build()
		// ... load doc into a kinmap.Editor or save it through a DocumentStore
		_ = doc
		_ = err
	}
*/
package dsl
