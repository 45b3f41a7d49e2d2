// Package uitest drives Bubble Tea models in tests.
//
// Output is read from a running [teatest.TestModel] and compared with ANSI
// sequences stripped:
//
//	tm := uitest.NewTestModel(t, model, uitest.Standard)
//	uitest.WaitForText(t, tm, "page 1/6")
//	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
//	final := uitest.FinalModel(t, tm)
package uitest
