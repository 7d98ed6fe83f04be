package soap

import (
	"fmt"
	"net/http"
)

const wsdlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
                  xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
                  xmlns:xs="http://www.w3.org/2001/XMLSchema"
                  xmlns:tns="mi.soap.crud"
                  targetNamespace="mi.soap.crud"
                  name="Application">
  <wsdl:types>
    <xs:schema targetNamespace="mi.soap.crud" elementFormDefault="qualified">
      <xs:element name="listar">
        <xs:complexType><xs:sequence/></xs:complexType>
      </xs:element>
      <xs:element name="listarResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="listarResult" type="xs:string" minOccurs="0" nillable="true"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="agregar">
        <xs:complexType><xs:sequence>
          <xs:element name="nombre" type="xs:string" minOccurs="0" nillable="true"/>
          <xs:element name="precio" type="xs:string" minOccurs="0" nillable="true"/>
          <xs:element name="cantidad" type="xs:string" minOccurs="0" nillable="true"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="agregarResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="agregarResult" type="xs:string" minOccurs="0" nillable="true"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="eliminar">
        <xs:complexType><xs:sequence>
          <xs:element name="producto_id" type="xs:integer" minOccurs="0" nillable="true"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="eliminarResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="eliminarResult" type="xs:string" minOccurs="0" nillable="true"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="actualizar">
        <xs:complexType><xs:sequence>
          <xs:element name="producto_id" type="xs:integer" minOccurs="0" nillable="true"/>
          <xs:element name="nombre" type="xs:string" minOccurs="0" nillable="true"/>
          <xs:element name="precio" type="xs:string" minOccurs="0" nillable="true"/>
          <xs:element name="cantidad" type="xs:string" minOccurs="0" nillable="true"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="actualizarResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="actualizarResult" type="xs:string" minOccurs="0" nillable="true"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="reporte">
        <xs:complexType><xs:sequence/></xs:complexType>
      </xs:element>
      <xs:element name="reporteResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="reporteResult" type="xs:string" minOccurs="0" nillable="true"/>
        </xs:sequence></xs:complexType>
      </xs:element>
    </xs:schema>
  </wsdl:types>
  <wsdl:message name="listar"><wsdl:part name="listar" element="tns:listar"/></wsdl:message>
  <wsdl:message name="listarResponse"><wsdl:part name="listarResponse" element="tns:listarResponse"/></wsdl:message>
  <wsdl:message name="agregar"><wsdl:part name="agregar" element="tns:agregar"/></wsdl:message>
  <wsdl:message name="agregarResponse"><wsdl:part name="agregarResponse" element="tns:agregarResponse"/></wsdl:message>
  <wsdl:message name="eliminar"><wsdl:part name="eliminar" element="tns:eliminar"/></wsdl:message>
  <wsdl:message name="eliminarResponse"><wsdl:part name="eliminarResponse" element="tns:eliminarResponse"/></wsdl:message>
  <wsdl:message name="actualizar"><wsdl:part name="actualizar" element="tns:actualizar"/></wsdl:message>
  <wsdl:message name="actualizarResponse"><wsdl:part name="actualizarResponse" element="tns:actualizarResponse"/></wsdl:message>
  <wsdl:message name="reporte"><wsdl:part name="reporte" element="tns:reporte"/></wsdl:message>
  <wsdl:message name="reporteResponse"><wsdl:part name="reporteResponse" element="tns:reporteResponse"/></wsdl:message>
  <wsdl:portType name="CRUDService">
    <wsdl:operation name="listar"><wsdl:input message="tns:listar"/><wsdl:output message="tns:listarResponse"/></wsdl:operation>
    <wsdl:operation name="agregar"><wsdl:input message="tns:agregar"/><wsdl:output message="tns:agregarResponse"/></wsdl:operation>
    <wsdl:operation name="eliminar"><wsdl:input message="tns:eliminar"/><wsdl:output message="tns:eliminarResponse"/></wsdl:operation>
    <wsdl:operation name="actualizar"><wsdl:input message="tns:actualizar"/><wsdl:output message="tns:actualizarResponse"/></wsdl:operation>
    <wsdl:operation name="reporte"><wsdl:input message="tns:reporte"/><wsdl:output message="tns:reporteResponse"/></wsdl:operation>
  </wsdl:portType>
  <wsdl:binding name="CRUDService" type="tns:CRUDService">
    <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
    <wsdl:operation name="listar"><soap:operation soapAction="listar" style="document"/><wsdl:input><soap:body use="literal"/></wsdl:input><wsdl:output><soap:body use="literal"/></wsdl:output></wsdl:operation>
    <wsdl:operation name="agregar"><soap:operation soapAction="agregar" style="document"/><wsdl:input><soap:body use="literal"/></wsdl:input><wsdl:output><soap:body use="literal"/></wsdl:output></wsdl:operation>
    <wsdl:operation name="eliminar"><soap:operation soapAction="eliminar" style="document"/><wsdl:input><soap:body use="literal"/></wsdl:input><wsdl:output><soap:body use="literal"/></wsdl:output></wsdl:operation>
    <wsdl:operation name="actualizar"><soap:operation soapAction="actualizar" style="document"/><wsdl:input><soap:body use="literal"/></wsdl:input><wsdl:output><soap:body use="literal"/></wsdl:output></wsdl:operation>
    <wsdl:operation name="reporte"><soap:operation soapAction="reporte" style="document"/><wsdl:input><soap:body use="literal"/></wsdl:input><wsdl:output><soap:body use="literal"/></wsdl:output></wsdl:operation>
  </wsdl:binding>
  <wsdl:service name="CRUDService">
    <wsdl:port name="Application" binding="tns:CRUDService">
      <soap:address location="%s"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>
`

// WSDL returns the service description with the given endpoint location.
func WSDL(location string) string {
	return fmt.Sprintf(wsdlTemplate, location)
}

// endpointURL builds the absolute SOAP endpoint URL as seen by the caller.
func endpointURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + SoapPath
}
