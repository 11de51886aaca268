package generator

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"cmdgen/internal/schema"
	"cmdgen/pkg/cmdkit"
)

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"quote":        strconv.Quote,
		"strings":      stringSlice,
		"arity":        arityConst,
		"runtimeAlias": runtimeAlias,

		// Decoder helpers
		"decode":     decodeExpr,
		"validator":  validatorExpr,
		"subcommand": subcommandExpr,
		"needsErr":   needsErr,

		// Command set helpers
		"variantGrammar": variantGrammar,
	}
}

// stringSlice renders a []string literal.
func stringSlice(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

// runtimeAlias reports whether the runtime import needs the cmdkit alias,
// which is the case when its path does not end in cmdkit.
func runtimeAlias(path string) bool {
	return path[strings.LastIndex(path, "/")+1:] != "cmdkit"
}

func arityConst(a cmdkit.Arity) string {
	switch a {
	case cmdkit.ArityFlag:
		return "cmdkit.ArityFlag"
	case cmdkit.ArityCounted:
		return "cmdkit.ArityCounted"
	case cmdkit.ArityMulti:
		return "cmdkit.ArityMulti"
	default:
		return "cmdkit.AritySingle"
	}
}

// decodeExpr renders the expression decoding a into its field.
func decodeExpr(a *schema.Arg) string {
	name := strconv.Quote(a.Name)
	switch a.Arity {
	case cmdkit.ArityCounted:
		return fmt.Sprintf("cmdkit.Count[%s](m, %s)", a.Elem, name)
	case cmdkit.ArityFlag:
		return fmt.Sprintf("cmdkit.Flag(m, %s)", name)
	case cmdkit.ArityMulti:
		return fmt.Sprintf("cmdkit.Multi(m, %s, %s)", name, a.Rule.Func)
	}

	switch {
	case a.Shape == schema.ShapeOptional && a.HasDefault:
		return fmt.Sprintf("cmdkit.OptionalOr(m, %s, %s, %s)", name, strconv.Quote(a.Default), a.Rule.Func)
	case a.Shape == schema.ShapeOptional:
		return fmt.Sprintf("cmdkit.Optional(m, %s, %s)", name, a.Rule.Func)
	case a.HasDefault:
		return fmt.Sprintf("cmdkit.SingleOr(m, %s, %s, %s)", name, strconv.Quote(a.Default), a.Rule.Func)
	default:
		return fmt.Sprintf("cmdkit.Single(m, %s, %s)", name, a.Rule.Func)
	}
}

func validatorExpr(a *schema.Arg) string {
	return fmt.Sprintf("cmdkit.Validator(%s, %s)", strconv.Quote(a.Name), a.Rule.Func)
}

// subcommandExpr renders the expression decoding slot of the command named
// parent.
func subcommandExpr(slot *schema.Slot, parent string) string {
	if slot.Optional {
		return fmt.Sprintf("cmdkit.Subcommand[%s](m)", slot.SetType)
	}
	return fmt.Sprintf("cmdkit.RequiredSubcommand[%s](m, %s)", slot.SetType, strconv.Quote(parent))
}

// needsErr reports whether the decoder of cmd has a fallible step.
func needsErr(cmd *schema.Command) bool {
	if cmd.Slot != nil {
		return true
	}
	for _, a := range cmd.Args {
		if a.Arity.TakesValue() {
			return true
		}
	}
	return false
}

// variantGrammar renders the grammar of v under its variant name.
func variantGrammar(v *schema.Variant) string {
	expr := v.Payload + "{}.Command()"
	if v.Name != v.Command.Name {
		expr += ".Renamed(" + strconv.Quote(v.Name) + ")"
	}
	return expr
}
